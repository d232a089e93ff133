// Package marketplace holds the business rules of the job marketplace: user
// accounts, profiles, job postings, the application state machine, ratings
// and notifications. It has no dependency on net/http.
package marketplace

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/media"
	"github.com/garnizeh/ustabul/internal/notify"
	"github.com/garnizeh/ustabul/pkg/repository"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200

	// listing cap for per-entity collections (skills, portfolio, ratings, notifications)
	collectionLimit = 100
)

type Options struct {
	// EnforceOwnership makes Accept and Reject fail with ErrForbidden when the
	// caller does not own the job.
	EnforceOwnership bool
	JobLifetime      time.Duration
}

type Service struct {
	store    repository.Store
	notifier *notify.Emitter
	issuer   *auth.Issuer
	media    *media.LocalStore
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	ratingLocks keyedMutex
}

// New returns a Service. mediaStore may be nil when uploads are not served.
func New(store repository.Store, notifier *notify.Emitter, issuer *auth.Issuer, mediaStore *media.LocalStore, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if opts.JobLifetime <= 0 {
		opts.JobLifetime = 30 * 24 * time.Hour
	}
	return &Service{
		store:    store,
		notifier: notifier,
		issuer:   issuer,
		media:    mediaStore,
		opts:     opts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Page is a skip/limit window over a listing.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// keyedMutex serializes work per key and drops idle entries.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
