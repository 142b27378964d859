package handler

import (
	"context"
	"errors"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/metrics"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/workflow"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open sessions")
)

// Registry holds the open sessions. Idle sessions expire after the TTL and
// an evicted session closes its workflows.
type Registry struct {
	cache   *cache.Cache
	backend *service.Backend
	opts    workflow.Options
	max     int
	now     func() time.Time
}

func NewRegistry(backend *service.Backend, cfg config.WorkflowConfig) *Registry {
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		ttl = time.Hour
	}
	r := &Registry{
		cache:   cache.New(ttl, ttl/2),
		backend: backend,
		opts:    workflow.Options{Debounce: cfg.Debounce()},
		max:     cfg.MaxSessions,
	}
	r.cache.OnEvicted(func(id string, v any) {
		if s, ok := v.(*workflow.Session); ok {
			s.Close()
			metrics.SessionClosed()
			logger.Debug(context.Background(), "session closed", "session_id", id, "username", s.Principal.Username)
		}
	})
	return r
}

// Create opens a session for the principal
func (r *Registry) Create(p workflow.Principal) (*workflow.Session, error) {
	if r.max > 0 && r.cache.ItemCount() >= r.max {
		return nil, ErrTooManySessions
	}

	// background searches log as the session's técnico
	ctx := context.WithValue(context.Background(), logger.UsernameKey, p.Username)
	ctx = context.WithValue(ctx, logger.TecnicoKey, p.IDTecnico.String())
	opts := r.opts
	opts.Context = ctx

	id := uuid.NewString()
	s := workflow.NewSession(id, workflow.Deps{
		Backend:   r.backend,
		Principal: p,
		Now:       r.now,
	}, opts)
	r.cache.SetDefault(id, s)
	metrics.SessionOpened()
	return s, nil
}

// Get returns the session owned by username and renews its TTL
func (r *Registry) Get(id, username string) (*workflow.Session, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := v.(*workflow.Session)
	if s.Principal.Username != username {
		return nil, ErrSessionNotFound
	}
	if err := r.renew(id, s); err != nil {
		return nil, err
	}
	return s, nil
}

// renew restarts the TTL of a live session. Replace fails once the janitor
// has evicted the key, so a closed session is never stored again.
func (r *Registry) renew(id string, s *workflow.Session) error {
	if s.Closed() {
		return ErrSessionNotFound
	}
	if err := r.cache.Replace(id, s, cache.DefaultExpiration); err != nil {
		return ErrSessionNotFound
	}
	return nil
}

// Delete closes the session owned by username
func (r *Registry) Delete(id, username string) error {
	if _, err := r.Get(id, username); err != nil {
		return err
	}
	r.cache.Delete(id)
	return nil
}

// Count returns the number of open sessions
func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

// Close ends every session
func (r *Registry) Close() {
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}
