// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package accounttest provides in-memory implementations of the account
// ports for tests.
package accounttest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/keyward/keyward/internal/account"
)

// UserStore is an in-memory account.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	users map[ulid.ULID]account.User
}

var _ account.UserRepository = (*UserStore)(nil)

// NewUserStore returns a store holding copies of the given users.
func NewUserStore(users ...*account.User) *UserStore {
	s := &UserStore{users: make(map[ulid.ULID]account.User)}
	for _, u := range users {
		s.users[u.ID] = *u
	}
	return s
}

// Create stores a copy of user.
func (s *UserStore) Create(_ context.Context, user *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) || u.UserName == user.UserName {
			return oops.Code("USER_DUPLICATE").Wrap(account.ErrDuplicate)
		}
	}
	s.users[user.ID] = *user
	return nil
}

// GetByID returns a copy of the user.
func (s *UserStore) GetByID(_ context.Context, id ulid.ULID) (*account.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	return &u, nil
}

// GetByEmail returns a copy of the user with the given email.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*account.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, oops.Code("USER_NOT_FOUND").Wrap(account.ErrNotFound)
}

// ExistsByEmailOrUserName reports whether either value is taken.
func (s *UserStore) ExistsByEmailOrUserName(_ context.Context, email, userName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) || u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

// UpdatePassword stores a new hash.
func (s *UserStore) UpdatePassword(_ context.Context, id ulid.ULID, hash string, changedAt time.Time, logoutOthersAt *time.Time) error {
	return s.update(id, func(u *account.User) {
		u.PasswordHash = hash
		u.PasswordChangedAt = &changedAt
		if logoutOthersAt != nil {
			at := *logoutOthersAt
			u.OtherDevicesLogOutAt = &at
		}
		u.UpdatedAt = changedAt
	})
}

// UpdatePasswordHash replaces the hash only.
func (s *UserStore) UpdatePasswordHash(_ context.Context, id ulid.ULID, hash string) error {
	return s.update(id, func(u *account.User) { u.PasswordHash = hash })
}

// UpdateStatus sets the status.
func (s *UserStore) UpdateStatus(_ context.Context, id ulid.ULID, status account.Status) error {
	return s.update(id, func(u *account.User) { u.Status = status })
}

// UpdateRole sets the role.
func (s *UserStore) UpdateRole(_ context.Context, id ulid.ULID, role account.Role) error {
	return s.update(id, func(u *account.User) { u.Role = role })
}

// Get returns a copy of the stored user, or nil.
func (s *UserStore) Get(id ulid.ULID) *account.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (s *UserStore) update(id ulid.ULID, fn func(*account.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return oops.Code("USER_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	fn(&u)
	s.users[id] = u
	return nil
}

func (s *UserStore) snapshot() map[ulid.ULID]account.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[ulid.ULID]account.User, len(s.users))
	for id, u := range s.users {
		cp[id] = u
	}
	return cp
}

func (s *UserStore) restore(users map[ulid.ULID]account.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
}

// OTPStore is an in-memory account.OTPRepository with the same conditional
// update semantics as the postgres implementation.
type OTPStore struct {
	mu      sync.Mutex
	records []*account.OTPRecord
}

var _ account.OTPRepository = (*OTPStore)(nil)

// NewOTPStore returns an empty store.
func NewOTPStore() *OTPStore {
	return &OTPStore{}
}

// Create stores a copy of rec.
func (s *OTPStore) Create(_ context.Context, rec *account.OTPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

// SupersedeActive finishes unfinished records for (user, purpose).
func (s *OTPStore) SupersedeActive(_ context.Context, userID ulid.ULID, purpose account.Purpose, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.records {
		if r.UserID == userID && r.Purpose == purpose && !r.IsFinished {
			r.IsFinished = true
			t := at
			r.FinishedAt = &t
			n++
		}
	}
	return n, nil
}

// FindActive returns the newest unused, unfinished record for the token hash.
func (s *OTPStore) FindActive(_ context.Context, userID ulid.ULID, purpose account.Purpose, tokenHash string) (*account.OTPRecord, error) {
	return s.newest(func(r *account.OTPRecord) bool {
		return r.UserID == userID && r.Purpose == purpose && r.TokenHash == tokenHash && !r.Used && !r.IsFinished
	})
}

// FindVerified returns the newest used, unfinished record for the used token hash.
func (s *OTPStore) FindVerified(_ context.Context, userID ulid.ULID, purpose account.Purpose, usedTokenHash string) (*account.OTPRecord, error) {
	return s.newest(func(r *account.OTPRecord) bool {
		return r.UserID == userID && r.Purpose == purpose && r.UsedTokenHash == usedTokenHash && r.Used && !r.IsFinished
	})
}

// MarkUsed moves an unused, unfinished, unexpired record to used.
func (s *OTPStore) MarkUsed(_ context.Context, id ulid.ULID, usedTokenHash string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id && !r.Used && !r.IsFinished && r.ExpiresAt.After(at) {
			r.Used = true
			r.UsedTokenHash = usedTokenHash
			t := at
			r.UsedAt = &t
			return true, nil
		}
	}
	return false, nil
}

// Finish moves the matching used record to finished.
func (s *OTPStore) Finish(_ context.Context, userID ulid.ULID, purpose account.Purpose, usedTokenHash string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed bool
	for _, r := range s.records {
		if r.UserID == userID && r.Purpose == purpose && r.UsedTokenHash == usedTokenHash && r.Used && !r.IsFinished {
			r.IsFinished = true
			t := at
			r.FinishedAt = &t
			changed = true
		}
	}
	return changed, nil
}

// RecordFailedAttempt counts a wrong code and finishes the record at maxAttempts.
func (s *OTPStore) RecordFailedAttempt(_ context.Context, id ulid.ULID, maxAttempts int, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id && !r.Used && !r.IsFinished {
			r.FailedAttempts++
			if r.FailedAttempts >= maxAttempts {
				r.IsFinished = true
				t := at
				r.FinishedAt = &t
			}
			return r.IsFinished, nil
		}
	}
	return false, nil
}

// DeleteExpired removes records that expired before the given time.
func (s *OTPStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var n int64
	for _, r := range s.records {
		if r.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return n, nil
}

// Records returns copies of all stored records, oldest first.
func (s *OTPStore) Records() []account.OTPRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]account.OTPRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out
}

// Expire moves the expiry of every record to at.
func (s *OTPStore) Expire(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		r.ExpiresAt = at
	}
}

func (s *OTPStore) newest(match func(*account.OTPRecord) bool) (*account.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []*account.OTPRecord
	for _, r := range s.records {
		if match(r) {
			found = append(found, r)
		}
	}
	if len(found) == 0 {
		return nil, oops.Code("OTP_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].ID.Compare(found[j].ID) > 0
	})
	cp := *found[0]
	return &cp, nil
}

func (s *OTPStore) snapshot() []account.OTPRecord {
	return s.Records()
}

func (s *OTPStore) restore(records []account.OTPRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]*account.OTPRecord, 0, len(records))
	for i := range records {
		r := records[i]
		s.records = append(s.records, &r)
	}
}

// Transactor gives the in-memory stores rollback semantics: their state is
// captured before fn runs and put back when fn fails. Transactions run one at
// a time.
type Transactor struct {
	mu    sync.Mutex
	users *UserStore
	otps  *OTPStore
}

var _ account.Transactor = (*Transactor)(nil)

// NewTransactor returns a Transactor over the given stores. Either may be nil.
func NewTransactor(users *UserStore, otps *OTPStore) *Transactor {
	return &Transactor{users: users, otps: otps}
}

// InTransaction runs fn and restores both stores if it returns an error.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		users map[ulid.ULID]account.User
		otps  []account.OTPRecord
	)
	if t.users != nil {
		users = t.users.snapshot()
	}
	if t.otps != nil {
		otps = t.otps.snapshot()
	}

	if err := fn(ctx); err != nil {
		if t.users != nil {
			t.users.restore(users)
		}
		if t.otps != nil {
			t.otps.restore(otps)
		}
		return err
	}
	return nil
}

// Sender records recovery messages instead of delivering them.
type Sender struct {
	mu   sync.Mutex
	sent []account.RecoveryMessage
	Err  error
}

var _ account.CodeSender = (*Sender)(nil)

// SendRecoveryCode records msg, or returns Err when set.
func (s *Sender) SendRecoveryCode(_ context.Context, msg account.RecoveryMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// Last returns the most recent message. ok is false when none was sent.
func (s *Sender) Last() (msg account.RecoveryMessage, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return account.RecoveryMessage{}, false
	}
	return s.sent[len(s.sent)-1], true
}

// Count returns the number of recorded messages.
func (s *Sender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// Events records published events.
type Events struct {
	mu     sync.Mutex
	events []account.Event
}

var _ account.EventPublisher = (*Events)(nil)

// Publish records event.
func (e *Events) Publish(_ context.Context, event account.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

// Types returns the recorded event types in order.
func (e *Events) Types() []account.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]account.EventType, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

// All returns the recorded events in order.
func (e *Events) All() []account.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]account.Event(nil), e.events...)
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current time of the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
