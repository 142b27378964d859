// Package workflow drives the search, select, edit, validate, save and
// reconcile cycle shared by every back-office form.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/metrics"
	"github.com/looplab/fsm"
)

// States
const (
	StateListed     = "listed"
	StateSearching  = "searching"
	StateSelected   = "selected"
	StateEditing    = "editing"
	StateSaving     = "saving"
	StateSaved      = "saved"
	StateSaveFailed = "save_failed"
)

// Events
const (
	eventSearch  = "search"
	eventResults = "results"
	eventSelect  = "select"
	eventBack    = "back"
	eventEdit    = "edit"
	eventSave    = "save"
	eventSaved   = "saved"
	eventFailed  = "failed"
	eventSettle  = "settle"
	eventModify  = "modify"
	eventCancel  = "cancel"
)

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state
	ErrInvalidTransition = errors.New("operation not allowed in the current state")
	// ErrBusy is returned while a detail load or save is in flight
	ErrBusy = errors.New("workflow is busy")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("workflow is closed")
)

func newMachine(entity string) *fsm.FSM {
	return fsm.NewFSM(
		StateListed,
		fsm.Events{
			{Name: eventSearch, Src: []string{StateListed, StateSearching}, Dst: StateSearching},
			{Name: eventResults, Src: []string{StateSearching, StateListed}, Dst: StateListed},
			{Name: eventSelect, Src: []string{StateListed, StateSearching}, Dst: StateSelected},
			{Name: eventBack, Src: []string{StateSelected}, Dst: StateListed},
			{Name: eventEdit, Src: []string{StateSelected}, Dst: StateEditing},
			{Name: eventSave, Src: []string{StateEditing, StateSaveFailed}, Dst: StateSaving},
			{Name: eventSaved, Src: []string{StateSaving}, Dst: StateSaved},
			{Name: eventFailed, Src: []string{StateSaving}, Dst: StateSaveFailed},
			{Name: eventSettle, Src: []string{StateSaved}, Dst: StateSelected},
			{Name: eventModify, Src: []string{StateSaveFailed}, Dst: StateEditing},
			{Name: eventCancel, Src: []string{StateEditing, StateSaveFailed}, Dst: StateSelected},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				metrics.RecordTransition(entity, e.Event, e.Dst)
			},
		},
	)
}

// fire runs an event. Staying in the same state is not an error.
func fire(ctx context.Context, m *fsm.FSM, event string) error {
	err := m.Event(ctx, event)
	if err == nil {
		return nil
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, m.Current())
}
