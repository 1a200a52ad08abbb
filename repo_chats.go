package chat

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Chats interface {
	repository.Repository[*Chat]

	ListWithOwner(ctx context.Context) ([]*Chat, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error)

	GetWithRelations(ctx context.Context, id uuid.UUID, includeUsers bool) (*Chat, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*Chat, error)

	Members(ctx context.Context, id uuid.UUID) ([]*User, error)
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	CountMessages(ctx context.Context, id uuid.UUID) (int, error)
	CountMembers(ctx context.Context, id uuid.UUID) (int, error)
}

type chats struct {
	repository.Repository[*Chat]
	db *bun.DB
}

var _ Chats = (*chats)(nil)

func NewChatsRepository(db *bun.DB) Chats {
	repo := repository.NewRepository[*Chat](db, repository.ModelHandlers[*Chat]{
		NewRecord: func() *Chat { return &Chat{} },
		GetID: func(c *Chat) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Chat, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &chats{
		Repository: repo,
		db:         db,
	}
}

func (a *chats) ListWithOwner(ctx context.Context) ([]*Chat, error) {
	records := []*Chat{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("Owner").
		Order("cht.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *chats) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error) {
	records := []*Chat{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("Owner").
		Join("JOIN chat_members AS chm ON chm.chat_id = cht.id").
		Where("chm.user_id = ?", userID).
		Order("cht.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *chats) GetWithRelations(ctx context.Context, id uuid.UUID, includeUsers bool) (*Chat, error) {
	record := &Chat{}
	q := a.db.NewSelect().
		Model(record).
		Relation("Owner").
		Where("cht.id = ?", id)

	if includeUsers {
		q = q.Relation("Users")
	}

	err := q.Limit(1).Scan(ctx)
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

func (a *chats) Rename(ctx context.Context, id uuid.UUID, name string) (*Chat, error) {
	record := &Chat{}
	record.ID = id
	record.Name = name
	now := time.Now()
	record.UpdatedAt = &now

	return a.Repository.Update(ctx, record, repository.UpdateByID(id.String()))
}

func (a *chats) Members(ctx context.Context, id uuid.UUID) ([]*User, error) {
	records := []*User{}
	err := a.db.NewSelect().
		Model(&records).
		Join("JOIN chat_members AS chm ON chm.user_id = usr.id").
		Where("chm.chat_id = ?", id).
		Order("usr.username ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *chats) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	return a.db.NewSelect().
		Model((*ChatMember)(nil)).
		Where("chm.chat_id = ?", chatID).
		Where("chm.user_id = ?", userID).
		Exists(ctx)
}

func (a *chats) CountMessages(ctx context.Context, id uuid.UUID) (int, error) {
	return a.db.NewSelect().
		Model((*Message)(nil)).
		Where("msg.chat_id = ?", id).
		Count(ctx)
}

func (a *chats) CountMembers(ctx context.Context, id uuid.UUID) (int, error) {
	return a.db.NewSelect().
		Model((*ChatMember)(nil)).
		Where("chm.chat_id = ?", id).
		Count(ctx)
}
