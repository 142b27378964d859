package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/metrics"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/validation"
	"github.com/looplab/fsm"
)

// DefaultDebounce is the search debounce window when none is configured
const DefaultDebounce = 300 * time.Millisecond

// Gateway is the remote side of one entity. S is the search row, D the
// editable record.
type Gateway[S, D any] struct {
	Search func(ctx context.Context, query, scope string) ([]S, error)
	// Detail returns (nil, nil) when the record does not exist yet
	Detail func(ctx context.Context, id string, row S) (*D, error)
	Save   func(ctx context.Context, id string, draft D) (*service.SaveResult, error)
}

// Entity describes one form: how rows are identified, how blank records are
// seeded, and how drafts are normalized and validated.
type Entity[S, D any] struct {
	Name string
	// RequireID makes a resolved id a precondition for saving
	RequireID bool
	RowID     func(S) (string, error)
	Blank     func(S) D
	Normalize func(*D)
	Validate  func(D) validation.Result
	Summarize func(D) any
	// FromSaved maps the record echoed by a save; nil means refetch
	FromSaved func(json.RawMessage) (*D, error)
	// RecordID reads the id of a record created by a save
	RecordID func(D) string
	Gateway  Gateway[S, D]
}

// Options tune a controller
type Options struct {
	Debounce time.Duration
	// Context carries request-scoped values into background searches
	Context context.Context
}

// Snapshot is the serializable state of a workflow
type Snapshot struct {
	Entity   string   `json:"entity"`
	State    string   `json:"state"`
	Query    string   `json:"query"`
	Scope    string   `json:"scope,omitempty"`
	Results  any      `json:"results"`
	Selected any      `json:"selected,omitempty"`
	ID       string   `json:"id,omitempty"`
	View     any      `json:"view,omitempty"`
	Draft    any      `json:"draft,omitempty"`
	Loading  bool     `json:"loading"`
	Outcome  *Outcome `json:"outcome,omitempty"`
	Summary  any      `json:"summary,omitempty"`
	Version  uint64   `json:"version"`
}

// Workflow is the type-erased surface the presentation layer drives
type Workflow interface {
	Entity() string
	RequiresExpediente() bool
	Snapshot() Snapshot
	Subscribe() (<-chan Snapshot, func())
	QueryChanged(query, scope string)
	Search(ctx context.Context, query, scope string) error
	Select(ctx context.Context, index int) error
	New() error
	Edit() error
	ApplyDraft(patch json.RawMessage) error
	AddRow(field string, row json.RawMessage) error
	EditRow(field string, index int, row json.RawMessage) error
	DeleteRow(field string, index int) error
	Save(ctx context.Context) error
	Cancel() error
	Back() error
	Close()
}

// Controller runs the workflow of one entity. Every update replaces the
// draft instead of mutating it, so snapshots can share values safely.
type Controller[S, D any] struct {
	entity Entity[S, D]

	baseCtx context.Context
	cancel  context.CancelFunc
	debounc *debouncer

	mu        sync.Mutex
	machine   *fsm.FSM
	query     string
	scope     string
	results   []S
	selected  *S
	id        string
	view      *D
	draft     *D
	loading   bool
	outcome   *Outcome
	version   uint64
	searchSeq uint64
	loadSeq   uint64
	subs      map[chan Snapshot]struct{}
	closed    bool
}

var _ Workflow = (*Controller[model.Expediente, model.Requisitos])(nil)

func NewController[S, D any](e Entity[S, D], opts Options) *Controller[S, D] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	base := opts.Context
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	return &Controller[S, D]{
		entity:  e,
		baseCtx: ctx,
		cancel:  cancel,
		debounc: newDebouncer(opts.Debounce),
		machine: newMachine(e.Name),
		results: []S{},
		subs:    make(map[chan Snapshot]struct{}),
	}
}

func (c *Controller[S, D]) Entity() string {
	return c.entity.Name
}

func (c *Controller[S, D]) RequiresExpediente() bool {
	return c.entity.RequireID
}

// State returns the current state name
func (c *Controller[S, D]) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Snapshot returns the current state
func (c *Controller[S, D]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[S, D]) snapshotLocked() Snapshot {
	s := Snapshot{
		Entity:  c.entity.Name,
		State:   c.machine.Current(),
		Query:   c.query,
		Scope:   c.scope,
		Results: append([]S{}, c.results...),
		ID:      c.id,
		Loading: c.loading,
		Version: c.version,
	}
	if c.selected != nil {
		s.Selected = *c.selected
	}
	if c.view != nil {
		s.View = *c.view
	}
	if c.draft != nil {
		s.Draft = *c.draft
	}
	if c.outcome != nil {
		o := *c.outcome
		s.Outcome = &o
	}
	if c.entity.Summarize != nil {
		switch {
		case c.draft != nil:
			s.Summary = c.entity.Summarize(*c.draft)
		case c.view != nil:
			s.Summary = c.entity.Summarize(*c.view)
		}
	}
	return s
}

// Subscribe returns a channel receiving the latest snapshot after every
// change, and a function that ends the subscription.
func (c *Controller[S, D]) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Snapshot, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[ch] = struct{}{}
	ch <- c.snapshotLocked()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[ch]; ok {
				delete(c.subs, ch)
				close(ch)
			}
		})
	}
}

// publishLocked bumps the version and hands the snapshot to subscribers,
// replacing any snapshot they have not read yet
func (c *Controller[S, D]) publishLocked() {
	c.version++
	if len(c.subs) == 0 {
		return
	}
	s := c.snapshotLocked()
	for ch := range c.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (c *Controller[S, D]) setOutcome(kind OutcomeKind, msg string, errs []string) {
	c.outcome = &Outcome{Kind: kind, Message: msg, Errors: errs}
	metrics.RecordOutcome(c.entity.Name, string(kind))
}

func (c *Controller[S, D]) guardLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.loading && c.machine.Current() != StateSearching {
		return ErrBusy
	}
	return nil
}

// QueryChanged records the query and runs the search once the debounce
// window passes without another change
func (c *Controller[S, D]) QueryChanged(query, scope string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query = query
	c.scope = scope
	c.publishLocked()
	c.mu.Unlock()

	c.debounc.Trigger(func() {
		if err := c.Search(c.baseCtx, query, scope); err != nil {
			logger.Debug(c.baseCtx, "debounced search skipped", "entity", c.entity.Name, "error", err)
		}
	})
}

// Search lists the rows matching query. A blank query clears the list
// without calling the backend; failures end as an empty list.
func (c *Controller[S, D]) Search(ctx context.Context, query, scope string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if st := c.machine.Current(); st != StateListed && st != StateSearching {
		c.mu.Unlock()
		return fmt.Errorf("%w: search from %s", ErrInvalidTransition, st)
	}
	c.query = query
	c.scope = scope
	c.searchSeq++
	seq := c.searchSeq

	term := strings.TrimSpace(query)
	if term == "" {
		c.results = []S{}
		c.loading = false
		_ = fire(ctx, c.machine, eventResults)
		c.setOutcome(OutcomeEmptyResult, "", nil)
		c.publishLocked()
		c.mu.Unlock()
		return nil
	}

	if err := fire(ctx, c.machine, eventSearch); err != nil {
		c.mu.Unlock()
		return err
	}
	c.loading = true
	c.publishLocked()
	c.mu.Unlock()

	rows, err := c.entity.Gateway.Search(ctx, term, strings.TrimSpace(scope))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.searchSeq || c.machine.Current() != StateSearching {
		// a newer search or a selection superseded this one
		return nil
	}
	c.loading = false
	switch {
	case err != nil:
		logger.Warn(ctx, "search failed", "entity", c.entity.Name, "query", term, "error", err)
		c.results = []S{}
		c.setOutcome(OutcomeEmptyResult, "", nil)
	case len(rows) == 0:
		c.results = []S{}
		c.setOutcome(OutcomeEmptyResult, "", nil)
	default:
		c.results = rows
		c.setOutcome(OutcomeResults, "", nil)
	}
	_ = fire(ctx, c.machine, eventResults)
	c.publishLocked()
	return nil
}

// Select opens the listed row at index
func (c *Controller[S, D]) Select(ctx context.Context, index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.results) {
		c.mu.Unlock()
		return fmt.Errorf("row %d out of range", index)
	}
	row := c.results[index]
	c.mu.Unlock()
	return c.Open(ctx, row)
}

// Open selects row and hydrates its detail. A row without a resolvable id
// is a precondition error; only New starts a record without one.
func (c *Controller[S, D]) Open(ctx context.Context, row S) error {
	c.mu.Lock()
	if err := c.guardLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	id := ""
	if c.entity.RowID != nil {
		var err error
		id, err = c.entity.RowID(row)
		if err != nil {
			c.setOutcome(OutcomePreconditionError, err.Error(), nil)
			c.publishLocked()
			c.mu.Unlock()
			return nil
		}
	}
	if st := c.machine.Current(); st == StateSelected {
		// switching rows goes through the list
		_ = fire(ctx, c.machine, eventBack)
	}
	if err := fire(ctx, c.machine, eventSelect); err != nil {
		c.mu.Unlock()
		return err
	}
	c.searchSeq++
	c.loadSeq++
	seq := c.loadSeq
	c.selected = &row
	c.id = id
	c.view = nil
	c.draft = nil
	c.outcome = nil
	c.loading = true
	c.publishLocked()
	c.mu.Unlock()

	var detail *D
	var err error
	if id != "" && c.entity.Gateway.Detail != nil {
		detail, err = c.entity.Gateway.Detail(ctx, id, row)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.loadSeq {
		return nil
	}
	c.loading = false
	msg := ""
	if err != nil {
		logger.Warn(ctx, "detail load failed", "entity", c.entity.Name, "id", id, "error", err)
		msg = "No se pudo cargar el registro"
	}
	if detail == nil {
		blank := c.entity.Blank(row)
		detail = &blank
	}
	c.normalize(detail)
	c.view = detail
	c.setOutcome(OutcomeLoaded, msg, nil)
	c.publishLocked()
	return nil
}

// New starts a blank record, used by the registration forms
func (c *Controller[S, D]) New() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardLocked(); err != nil {
		return err
	}
	if err := fire(c.baseCtx, c.machine, eventSelect); err != nil {
		return err
	}
	c.searchSeq++
	c.loadSeq++
	var zero S
	blank := c.entity.Blank(zero)
	c.normalize(&blank)
	c.selected = nil
	c.id = ""
	c.view = &blank
	c.draft = nil
	c.outcome = nil
	c.loading = false
	c.publishLocked()
	return nil
}

// Edit starts a draft as an independent copy of the view
func (c *Controller[S, D]) Edit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardLocked(); err != nil {
		return err
	}
	if c.view == nil {
		return fmt.Errorf("%w: nothing selected", ErrInvalidTransition)
	}
	if err := fire(c.baseCtx, c.machine, eventEdit); err != nil {
		return err
	}
	draft, err := clone(*c.view)
	if err != nil {
		return err
	}
	c.draft = &draft
	c.outcome = nil
	c.publishLocked()
	return nil
}

// Update applies fn to a copy of the draft and normalizes the result
func (c *Controller[S, D]) Update(fn func(*D)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked(func(d *D) error {
		fn(d)
		return nil
	})
}

func (c *Controller[S, D]) updateLocked(fn func(*D) error) error {
	if c.closed {
		return ErrClosed
	}
	switch c.machine.Current() {
	case StateEditing:
	case StateSaveFailed:
		if err := fire(c.baseCtx, c.machine, eventModify); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: update from %s", ErrInvalidTransition, c.machine.Current())
	}
	next, err := clone(*c.draft)
	if err != nil {
		return err
	}
	if err := fn(&next); err != nil {
		return err
	}
	c.normalize(&next)
	c.draft = &next
	c.publishLocked()
	return nil
}

// ApplyDraft merges a JSON object onto the draft. Keys set to null reset
// the field to its zero value.
func (c *Controller[S, D]) ApplyDraft(patch json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked(func(d *D) error {
		return mergeInto(d, patch)
	})
}

// AddRow appends row to the list field of the draft
func (c *Controller[S, D]) AddRow(field string, row json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked(func(d *D) error {
		return editList(d, field, func(items []json.RawMessage) ([]json.RawMessage, error) {
			if len(row) == 0 {
				row = json.RawMessage("{}")
			}
			return append(items, row), nil
		})
	})
}

// EditRow merges row onto the element at index of the list field
func (c *Controller[S, D]) EditRow(field string, index int, row json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked(func(d *D) error {
		return editList(d, field, func(items []json.RawMessage) ([]json.RawMessage, error) {
			if index < 0 || index >= len(items) {
				return nil, fmt.Errorf("row %d out of range", index)
			}
			merged, err := mergeRaw(items[index], row)
			if err != nil {
				return nil, err
			}
			items[index] = merged
			return items, nil
		})
	})
}

// DeleteRow removes the element at index of the list field
func (c *Controller[S, D]) DeleteRow(field string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateLocked(func(d *D) error {
		return editList(d, field, func(items []json.RawMessage) ([]json.RawMessage, error) {
			if index < 0 || index >= len(items) {
				return nil, fmt.Errorf("row %d out of range", index)
			}
			return append(items[:index], items[index+1:]...), nil
		})
	})
}

// Save checks the id precondition and the validation rules, then sends the
// draft. On success the view is reconciled with the server and the workflow
// settles back in selected. Failures keep the draft for another attempt.
func (c *Controller[S, D]) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	st := c.machine.Current()
	if st != StateEditing && st != StateSaveFailed {
		c.mu.Unlock()
		return fmt.Errorf("%w: save from %s", ErrInvalidTransition, st)
	}
	if c.entity.RequireID && !model.FlexID(c.id).Valid() {
		c.setOutcome(OutcomePreconditionError, model.ErrMissingExpedienteID.Error(), nil)
		c.publishLocked()
		c.mu.Unlock()
		return nil
	}
	if c.entity.Validate != nil {
		if res := c.entity.Validate(*c.draft); !res.Valid {
			if st == StateSaveFailed {
				_ = fire(ctx, c.machine, eventModify)
			}
			c.setOutcome(OutcomeValidationErrors, "", res.Errors)
			c.publishLocked()
			c.mu.Unlock()
			return nil
		}
	}
	if err := fire(ctx, c.machine, eventSave); err != nil {
		c.mu.Unlock()
		return err
	}
	id := c.id
	draft := *c.draft
	var row S
	if c.selected != nil {
		row = *c.selected
	}
	c.loading = true
	c.outcome = nil
	c.publishLocked()
	c.mu.Unlock()

	res, err := c.entity.Gateway.Save(ctx, id, draft)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.loading = false
		logger.Error(ctx, "save failed", "entity", c.entity.Name, "id", id, "error", err)
		_ = fire(ctx, c.machine, eventFailed)
		c.setOutcome(OutcomeSaveError, saveErrorMessage(err), nil)
		c.publishLocked()
		return nil
	}

	c.mu.Lock()
	_ = fire(ctx, c.machine, eventSaved)
	c.publishLocked()
	c.mu.Unlock()

	view := c.reconcile(ctx, id, row, draft, res)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.normalize(view)
	c.view = view
	c.draft = nil
	if c.id == "" && c.entity.RecordID != nil {
		c.id = c.entity.RecordID(*view)
	}
	_ = fire(ctx, c.machine, eventSettle)
	msg := "Cambios guardados correctamente"
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	c.setOutcome(OutcomeSuccess, msg, nil)
	c.publishLocked()
	return nil
}

// reconcile prefers the record echoed by the server, then a refetch, and
// falls back to the draft that was sent
func (c *Controller[S, D]) reconcile(ctx context.Context, id string, row S, draft D, res *service.SaveResult) *D {
	if c.entity.FromSaved != nil && res.HasData() {
		if v, err := c.entity.FromSaved(res.Data); err == nil && v != nil {
			return v
		}
	}
	if id != "" && c.entity.Gateway.Detail != nil {
		v, err := c.entity.Gateway.Detail(ctx, id, row)
		if err != nil {
			logger.Warn(ctx, "refetch after save failed", "entity", c.entity.Name, "id", id, "error", err)
		}
		if v != nil {
			return v
		}
	}
	return &draft
}

// Cancel drops the draft; the view is left as it was before editing
func (c *Controller[S, D]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := fire(c.baseCtx, c.machine, eventCancel); err != nil {
		return err
	}
	c.draft = nil
	c.outcome = nil
	c.publishLocked()
	return nil
}

// Back returns to the list, clearing the selection
func (c *Controller[S, D]) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := fire(c.baseCtx, c.machine, eventBack); err != nil {
		return err
	}
	c.loadSeq++
	c.selected = nil
	c.id = ""
	c.view = nil
	c.draft = nil
	c.loading = false
	c.outcome = nil
	c.publishLocked()
	return nil
}

// Close stops the debounce timer, cancels background searches and ends
// every subscription
func (c *Controller[S, D]) Close() {
	c.debounc.Stop()
	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for ch := range c.subs {
		close(ch)
		delete(c.subs, ch)
	}
}

func (c *Controller[S, D]) normalize(d *D) {
	if c.entity.Normalize != nil {
		c.entity.Normalize(d)
	}
}
