// Package memory provides an in-process implementation of db.Store.
// It backs local development (STORE=memory) and package tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/types"
	"github.com/patrickmn/go-cache"
)

type entry[T any] struct {
	seq    uint64
	userID uuid.UUID
	value  T
}

// collection is a user-scoped record set keyed by record id
type collection[T any] struct {
	prefix string
	cache  *cache.Cache
}

func newCollection[T any](prefix string) *collection[T] {
	// Records never expire
	return &collection[T]{prefix: prefix, cache: cache.New(cache.NoExpiration, 0)}
}

func (c *collection[T]) key(id uuid.UUID) string {
	return c.prefix + ":" + id.String()
}

func (c *collection[T]) put(seq uint64, userID, id uuid.UUID, value T) {
	c.cache.Set(c.key(id), &entry[T]{seq: seq, userID: userID, value: value}, cache.NoExpiration)
}

func (c *collection[T]) get(userID, id uuid.UUID) (*entry[T], bool) {
	x, found := c.cache.Get(c.key(id))
	if !found {
		return nil, false
	}
	e := x.(*entry[T])
	if e.userID != userID {
		return nil, false
	}
	return e, true
}

func (c *collection[T]) remove(userID, id uuid.UUID) bool {
	if _, ok := c.get(userID, id); !ok {
		return false
	}
	c.cache.Delete(c.key(id))
	return true
}

// list returns the user's records in insertion order
func (c *collection[T]) list(userID uuid.UUID) []T {
	var entries []*entry[T]
	for _, item := range c.cache.Items() {
		e := item.Object.(*entry[T])
		if e.userID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.value)
	}
	return out
}

// Store is an in-memory db.Store. It is safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	seq uint64
	now func() time.Time

	users          *collection[types.User]
	emails         *cache.Cache
	experiences    *collection[types.Experience]
	education      *collection[types.Education]
	skills         *collection[types.Skill]
	projects       *collection[types.Project]
	certifications *collection[types.Certification]
	resumes        *collection[types.Resume]
}

var _ db.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		now:            func() time.Time { return time.Now().UTC() },
		users:          newCollection[types.User]("user"),
		emails:         cache.New(cache.NoExpiration, 0),
		experiences:    newCollection[types.Experience]("experience"),
		education:      newCollection[types.Education]("education"),
		skills:         newCollection[types.Skill]("skill"),
		projects:       newCollection[types.Project]("project"),
		certifications: newCollection[types.Certification]("certification"),
		resumes:        newCollection[types.Resume]("resume"),
	}
}

func (s *Store) next() (uint64, time.Time) {
	s.seq++
	return s.seq, s.now()
}

// --- users ---

// CreateUser inserts a user without a password and returns its id
func (s *Store) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := types.NormalizeEmail(email)
	if _, taken := s.emails.Get(normalized); taken {
		return uuid.Nil, &DuplicateEmailError{Email: normalized}
	}

	seq, now := s.next()
	u := types.User{ID: uuid.New(), Name: name, Email: normalized, Phone: phone, CreatedAt: now, UpdatedAt: now}
	s.users.put(seq, u.ID, u.ID, u)
	s.emails.Set(normalized, u.ID, cache.NoExpiration)
	return u.ID, nil
}

// GetUser returns nil, nil when the user does not exist
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users.get(id, id)
	if !ok {
		return nil, nil
	}
	u := e.value
	return &u, nil
}

// GetUserByEmail returns nil, nil when no user has the email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	x, found := s.emails.Get(types.NormalizeEmail(email))
	if !found {
		return nil, nil
	}
	return s.GetUser(ctx, x.(uuid.UUID))
}

// CheckEmailExists reports whether an account already uses the email
func (s *Store) CheckEmailExists(_ context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	_, found := s.emails.Get(types.NormalizeEmail(email))
	return found, nil
}

// UpdatePassword replaces the stored password hash
func (s *Store) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users.get(userID, userID)
	if !ok {
		return db.ErrNotFound
	}
	e.value.PasswordHash = passwordHash
	e.value.UpdatedAt = s.now()
	return nil
}

// UpdateUser updates the contact fields of a user
func (s *Store) UpdateUser(_ context.Context, user *types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users.get(user.ID, user.ID)
	if !ok {
		return db.ErrNotFound
	}
	e.value.Name = user.Name
	e.value.Phone = user.Phone
	e.value.Location = user.Location
	e.value.Headline = user.Headline
	e.value.LinkedIn = user.LinkedIn
	e.value.GitHub = user.GitHub
	e.value.Website = user.Website
	e.value.UpdatedAt = s.now()
	user.UpdatedAt = e.value.UpdatedAt
	return nil
}

// LoadProfile loads the user and every record collection
func (s *Store) LoadProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	return db.LoadProfile(ctx, s, userID)
}

// DuplicateEmailError is returned when an email is already registered
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return "email already registered: " + e.Email
}
