package workflow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
)

// expedienteOpener is implemented by the expediente-scoped controllers
type expedienteOpener interface {
	Open(ctx context.Context, row model.Expediente) error
}

// Session is one técnico's working context. It owns the principal and the
// current expediente and hands both to every workflow it mounts.
type Session struct {
	ID        string
	Principal Principal
	CreatedAt time.Time

	deps Deps
	opts Options

	mu         sync.Mutex
	expediente *model.Expediente
	workflows  map[string]Workflow
	closed     bool
}

// SessionInfo is the serializable view of a session
type SessionInfo struct {
	ID         string            `json:"id"`
	Principal  Principal         `json:"principal"`
	Expediente *model.Expediente `json:"expediente,omitempty"`
	Workflows  []string          `json:"workflows"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewSession(id string, deps Deps, opts Options) *Session {
	return &Session{
		ID:        id,
		Principal: deps.Principal,
		CreatedAt: time.Now(),
		deps:      deps,
		opts:      opts,
		workflows: make(map[string]Workflow),
	}
}

func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.workflows))
	for name := range s.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	info := SessionInfo{
		ID:        s.ID,
		Principal: s.Principal,
		Workflows: names,
		CreatedAt: s.CreatedAt,
	}
	if s.expediente != nil {
		exp := *s.expediente
		info.Expediente = &exp
	}
	return info
}

// Expediente returns the current expediente, nil when none is set
func (s *Session) Expediente() *model.Expediente {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expediente == nil {
		return nil
	}
	exp := *s.expediente
	return &exp
}

// SetExpediente makes exp the current case file and opens it in every
// mounted expediente-scoped workflow that is not holding a draft
func (s *Session) SetExpediente(ctx context.Context, exp model.Expediente) error {
	if _, err := model.ResolveExpedienteID(exp.Ref()); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.expediente = &exp
	var targets []Workflow
	for _, wf := range s.workflows {
		if wf.RequiresExpediente() {
			targets = append(targets, wf)
		}
	}
	s.mu.Unlock()

	for _, wf := range targets {
		if err := s.open(ctx, wf, exp); err != nil {
			logger.Warn(ctx, "workflow kept its record", "entity", wf.Entity(), "error", err)
		}
	}
	return nil
}

func (s *Session) open(ctx context.Context, wf Workflow, exp model.Expediente) error {
	opener, ok := wf.(expedienteOpener)
	if !ok {
		return nil
	}
	switch wf.Snapshot().State {
	case StateEditing, StateSaving, StateSaveFailed, StateSaved:
		return ErrBusy
	}
	return opener.Open(ctx, exp)
}

// Mount returns the workflow of entity, creating it on first use. An
// expediente-scoped workflow opens the current expediente right away.
func (s *Session) Mount(ctx context.Context, entity string) (Workflow, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if wf, ok := s.workflows[entity]; ok {
		s.mu.Unlock()
		return wf, nil
	}
	wf, err := Build(entity, s.deps, s.opts)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.workflows[entity] = wf
	exp := s.expediente
	s.mu.Unlock()

	if exp != nil && wf.RequiresExpediente() {
		if err := s.open(ctx, wf, *exp); err != nil {
			return wf, err
		}
	}
	return wf, nil
}

// Workflow returns a mounted workflow
func (s *Session) Workflow(entity string) (Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.workflows[entity]
	return wf, ok
}

// Unmount closes and forgets one workflow
func (s *Session) Unmount(entity string) {
	s.mu.Lock()
	wf, ok := s.workflows[entity]
	delete(s.workflows, entity)
	s.mu.Unlock()
	if ok {
		wf.Close()
	}
}

// Closed reports whether Close has run
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close ends every workflow of the session
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	wfs := s.workflows
	s.workflows = map[string]Workflow{}
	s.mu.Unlock()

	for _, wf := range wfs {
		wf.Close()
	}
}
