package chat

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// UserTracker is a store we can use to retrieve users
type UserTracker interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider resolves users into identities for the authenticator
type UserProvider struct {
	store    UserTracker
	logger   Logger
	activity ActivitySink
}

// MaxLoginAttempts is the maximum number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserTracker) *UserProvider {
	return &UserProvider{
		store:    store,
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// WithActivitySink routes login audit events to the given sink.
func (u *UserProvider) WithActivitySink(s ActivitySink) *UserProvider {
	u.activity = normalizeActivitySink(s)
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. An unknown identifier and a failed comparison both collapse into
// ErrMismatchedHashAndPassword so the response carries no enumeration signal.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if IsNotFoundError(err) {
			// burn a compare so the unknown identifier path costs the
			// same as a failed password check
			ComparePasswordAndHash(password, unknownUserHash)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		ComparePasswordAndHash(password, unknownUserHash)
		return nil, ErrMismatchedHashAndPassword
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := u.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		u.recordActivity(ctx, ActivityEventLoginFailure, user)

		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	u.recordActivity(ctx, ActivityEventLoginSuccess, user)

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identifier without a password check.
// Session resolution uses it to re-check that the token subject still exists.
func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return NewIdentityFromUser(user), nil
}

func (u UserProvider) recordActivity(ctx context.Context, eventType ActivityEventType, user *User) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     user.ID.String(),
		OccurredAt: time.Now(),
	}
	if err := u.activity.Record(ctx, event); err != nil {
		u.logger.Error("failed to record activity event", "event", string(eventType), "error", err)
	}
}
