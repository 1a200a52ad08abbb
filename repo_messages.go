package chat

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Messages interface {
	repository.Repository[*Message]

	ListForChat(ctx context.Context, chatID uuid.UUID) ([]*Message, error)
	GetWithAuthor(ctx context.Context, id uuid.UUID) (*Message, error)
	Create(ctx context.Context, record *Message, criteria ...repository.InsertCriteria) (*Message, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Message, criteria ...repository.InsertCriteria) (*Message, error)
}

type messages struct {
	repository.Repository[*Message]
	db *bun.DB
}

var _ Messages = (*messages)(nil)

func NewMessagesRepository(db *bun.DB) Messages {
	repo := repository.NewRepository[*Message](db, repository.ModelHandlers[*Message]{
		NewRecord: func() *Message { return &Message{} },
		GetID: func(m *Message) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *Message, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
		GetIdentifier: func() string {
			return ""
		},
	})

	return &messages{
		Repository: repo,
		db:         db,
	}
}

func (a *messages) ListForChat(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
	records := []*Message{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("User").
		Where("msg.chat_id = ?", chatID).
		Order("msg.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *messages) GetWithAuthor(ctx context.Context, id uuid.UUID) (*Message, error) {
	record := &Message{}
	err := a.db.NewSelect().
		Model(record).
		Relation("User").
		Where("msg.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *messages) Create(ctx context.Context, record *Message, criteria ...repository.InsertCriteria) (*Message, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *messages) CreateTx(ctx context.Context, tx bun.IDB, record *Message, criteria ...repository.InsertCriteria) (*Message, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}
