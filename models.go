package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. PasswordHash never leaves the process; public
// responses go through UserPublic.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Chat is a named room owned by a user, with a membership set.
type Chat struct {
	bun.BaseModel `bun:"table:chats,alias:cht"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	OwnerID       *uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Owner         *User      `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	Users         []*User    `bun:"m2m:chat_members,join:Chat=User" json:"users,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ChatMember is the join table backing Chat.Users.
type ChatMember struct {
	bun.BaseModel `bun:"table:chat_members,alias:chm"`
	ChatID        uuid.UUID `bun:"chat_id,pk,type:uuid" json:"chat_id,omitempty"`
	Chat          *Chat     `bun:"rel:belongs-to,join:chat_id=id" json:"chat,omitempty"`
	UserID        uuid.UUID `bun:"user_id,pk,type:uuid" json:"user_id,omitempty"`
	User          *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

// Message is immutable once created.
type Message struct {
	bun.BaseModel `bun:"table:messages,alias:msg"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Text          string     `bun:"text,notnull" json:"text,omitempty"`
	ChatID        uuid.UUID  `bun:"chat_id,notnull,type:uuid" json:"chat_id,omitempty"`
	Chat          *Chat      `bun:"rel:belongs-to,join:chat_id=id" json:"chat,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// UserPublic is the wire representation of a user.
type UserPublic struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func NewUserPublic(u *User) UserPublic {
	return UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserPublicList(users []*User) []UserPublic {
	out := make([]UserPublic, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserPublic(u))
	}
	return out
}

// ChatPublic is the wire representation of a chat, owner included.
type ChatPublic struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Owner     *UserPublic `json:"owner,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

func NewChatPublic(c *Chat) ChatPublic {
	out := ChatPublic{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
	if c.Owner != nil {
		owner := NewUserPublic(c.Owner)
		out.Owner = &owner
	}
	return out
}

func NewChatPublicList(chats []*Chat) []ChatPublic {
	out := make([]ChatPublic, 0, len(chats))
	for _, c := range chats {
		out = append(out, NewChatPublic(c))
	}
	return out
}

// MessagePublic is the wire representation of a message, author included.
type MessagePublic struct {
	ID        uuid.UUID   `json:"id"`
	Text      string      `json:"text"`
	ChatID    uuid.UUID   `json:"chat_id"`
	User      *UserPublic `json:"user,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

func NewMessagePublic(m *Message) MessagePublic {
	out := MessagePublic{
		ID:        m.ID,
		Text:      m.Text,
		ChatID:    m.ChatID,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		author := NewUserPublic(m.User)
		out.User = &author
	}
	return out
}

func NewMessagePublicList(messages []*Message) []MessagePublic {
	out := make([]MessagePublic, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessagePublic(m))
	}
	return out
}
