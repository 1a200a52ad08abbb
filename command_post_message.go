package chat

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type PostMessageMessage struct {
	ChatID uuid.UUID `json:"-"`
	UserID uuid.UUID `json:"-"`
	Text   string    `json:"text"`
}

func (e PostMessageMessage) Type() string { return "chat.post_message" }

type PostMessageHandler struct {
	repo RepositoryManager
}

func NewPostMessageHandler(repo RepositoryManager) *PostMessageHandler {
	return &PostMessageHandler{repo: repo}
}

func (h *PostMessageHandler) Execute(ctx context.Context, event PostMessageMessage) (*Message, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled while posting message",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *PostMessageHandler) execute(ctx context.Context, event PostMessageMessage) (*Message, error) {
	record := &Message{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Chat)(nil)).
			Where("cht.id = ?", event.ChatID).
			Exists(ctx)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not check chat")
		}
		if !exists {
			return NewEntityNotFound("Chat", event.ChatID.String())
		}

		record.ChatID = event.ChatID
		record.UserID = event.UserID
		record.Text = event.Text

		if record, err = h.repo.Messages().CreateTx(ctx, tx, record); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create message")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "post message transaction failed")
	}

	// reload with the author relation so responses can embed the sender
	if full, err := h.repo.Messages().GetWithAuthor(ctx, record.ID); err == nil {
		return full, nil
	}

	return record, nil
}
