package testhelpers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
)

// MemoryUserRepository is an in-process UserRepository with the same
// uniqueness rules as the users table.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User

	// Err, when set, is returned by every method.
	Err error
}

var _ repositories.UserRepository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*models.User)}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

// public returns the row as a default projection would: no secrets.
func public(u *models.User) *models.User {
	return u.Sanitized()
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return uniqueViolation("users_email_key")
		}
		if u.Phone != nil && existing.Phone != nil && *existing.Phone == *u.Phone {
			return uniqueViolation("users_phone_key")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = models.DefaultRole
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	c := *u
	r.users[u.ID] = &c
	return nil
}

// Put stores u as-is, bypassing uniqueness checks.
func (r *MemoryUserRepository) Put(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.users[u.ID] = &c
}

// Delete removes a user.
func (r *MemoryUserRepository) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Raw returns the stored row including secrets.
func (r *MemoryUserRepository) Raw(id uuid.UUID) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if u, ok := r.users[id]; ok {
		return public(u), nil
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == email {
			return public(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByEmailOrFullname(_ context.Context, email, fullname string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == email || u.Fullname == fullname {
			return public(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	for _, u := range r.users {
		if u.Phone != nil && *u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) GetPasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	if u, ok := r.users[id]; ok {
		return u.PasswordHash, nil
	}
	return "", nil
}

func (r *MemoryUserRepository) UpdateRefreshToken(_ context.Context, id uuid.UUID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	tok := refreshToken
	u.RefreshToken = &tok
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, f models.UserFilters, opts models.PaginationOptions) ([]*models.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	contains := func(s, sub string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}

	var matched []*models.User
	for _, u := range r.users {
		phone := ""
		if u.Phone != nil {
			phone = *u.Phone
		}
		if f.SearchTerm != "" && !contains(u.Fullname, f.SearchTerm) &&
			!contains(u.Email, f.SearchTerm) && !contains(phone, f.SearchTerm) {
			continue
		}
		if f.Fullname != "" && !contains(u.Fullname, f.Fullname) {
			continue
		}
		if f.Email != "" && u.Email != f.Email {
			continue
		}
		if f.Phone != "" && phone != f.Phone {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		matched = append(matched, public(u))
	}

	less := func(a, b *models.User) bool {
		switch opts.SortBy {
		case "fullname":
			return a.Fullname < b.Fullname
		case "email":
			return a.Email < b.Email
		case "role":
			return a.Role < b.Role
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if opts.SortOrder == "desc" {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := len(matched)
	start := opts.Offset()
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// MemoryRevocationRepository records every Revoke call, duplicates included.
type MemoryRevocationRepository struct {
	mu      sync.Mutex
	entries []models.RevokedToken
	now     func() time.Time

	// Err, when set, is returned by every method.
	Err error
}

var _ repositories.RevocationRepository = (*MemoryRevocationRepository)(nil)

func NewMemoryRevocationRepository() *MemoryRevocationRepository {
	return &MemoryRevocationRepository{now: time.Now}
}

func (r *MemoryRevocationRepository) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.entries = append(r.entries, models.RevokedToken{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: r.now(),
	})
	return nil
}

func (r *MemoryRevocationRepository) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	for _, e := range r.entries {
		if e.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRevocationRepository) CleanupExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	now := r.now()
	kept := r.entries[:0]
	var removed int64
	for _, e := range r.entries {
		if e.IsExpired(now) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

// Entries returns a copy of every stored revocation.
func (r *MemoryRevocationRepository) Entries() []models.RevokedToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.RevokedToken, len(r.entries))
	copy(out, r.entries)
	return out
}

// MemoryRateLimitRepository counts per key within fixed windows.
type MemoryRateLimitRepository struct {
	mu      sync.Mutex
	counts  map[string]int
	expires map[string]time.Time

	// Err, when set, is returned by every method.
	Err error
}

var _ repositories.RateLimitRepository = (*MemoryRateLimitRepository)(nil)

func NewMemoryRateLimitRepository() *MemoryRateLimitRepository {
	return &MemoryRateLimitRepository{
		counts:  make(map[string]int),
		expires: make(map[string]time.Time),
	}
}

func (r *MemoryRateLimitRepository) Hit(_ context.Context, key string, window time.Duration) (*models.RateLimitWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	now := time.Now()
	if exp, ok := r.expires[key]; !ok || !exp.After(now) {
		r.counts[key] = 0
		r.expires[key] = now.Add(window)
	}
	r.counts[key]++
	return &models.RateLimitWindow{Count: r.counts[key], ResetAt: r.expires[key]}, nil
}

func (r *MemoryRateLimitRepository) CleanupExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	now := time.Now()
	var removed int64
	for k, exp := range r.expires {
		if !exp.After(now) {
			delete(r.expires, k)
			delete(r.counts, k)
			removed++
		}
	}
	return removed, nil
}

// Expire ends the current window of every counter.
func (r *MemoryRateLimitRepository) Expire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.expires {
		r.expires[k] = time.Now().Add(-time.Second)
	}
}

// StubPinger reports Err from Ping.
type StubPinger struct {
	Err error
}

func (p StubPinger) Ping(context.Context) error {
	return p.Err
}
