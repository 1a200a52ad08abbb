package chat

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UpdateProfileMessage struct {
	UserID   uuid.UUID `json:"-"`
	Username *string   `json:"username"`
	Email    *string   `json:"email"`
}

func (e UpdateProfileMessage) Type() string { return "user.update_profile" }

type UpdateProfileHandler struct {
	repo RepositoryManager
}

func NewUpdateProfileHandler(repo RepositoryManager) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) (*User, error) {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Users().GetByIdentifierTx(ctx, tx, event.UserID.String())
		if err != nil {
			if IsNotFoundError(err) {
				return NewEntityNotFound("User", event.UserID.String())
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load user")
		}

		// each field is checked against every user but the subject, so
		// resubmitting an unchanged value never conflicts with itself. Both
		// fields run their check before rejecting; username is reported first
		// when both collide, and the rollback keeps the apply all-or-nothing.
		var conflict *goerrors.Error

		if event.Username != nil && *event.Username != record.Username {
			taken, err := h.repo.Users().UsernameTakenTx(ctx, tx, *event.Username, record.ID)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "could not check username")
			}
			if taken {
				conflict = NewDuplicateEntity("User", "username", *event.Username)
			} else {
				record.Username = *event.Username
			}
		}

		if event.Email != nil && *event.Email != record.Email {
			taken, err := h.repo.Users().EmailTakenTx(ctx, tx, *event.Email, record.ID)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "could not check email")
			}
			if taken {
				if conflict == nil {
					conflict = NewDuplicateEntity("User", "email", *event.Email)
				}
			} else {
				record.Email = *event.Email
			}
		}

		if conflict != nil {
			return conflict
		}

		now := time.Now()
		record.UpdatedAt = &now

		if user, err = h.repo.Users().UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not update user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "profile update transaction failed")
	}

	return user, nil
}
