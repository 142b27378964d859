package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/validation"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type line struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type record struct {
	Name  string   `json:"name"`
	Notes string   `json:"notes"`
	Lines []line   `json:"lines"`
	Tags  []string `json:"tags"`
}

// fakeGateway records calls and answers from fixed data
type fakeGateway struct {
	mu        sync.Mutex
	queries   []string
	block     map[string]chan struct{}
	rows      map[string][]item
	details   map[string]*record
	detailErr error
	saveErr   error
	saveMsg   string
	saves     []record
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		block: make(map[string]chan struct{}),
		rows: map[string][]item{
			"ana":  {{ID: "1", Name: "Ana"}, {ID: "2", Name: "Anabel"}},
			"luis": {{ID: "3", Name: "Luis"}},
			"sin":  {{ID: "", Name: "Sin id"}},
		},
		details: map[string]*record{
			"1": {Name: "Ana", Notes: "primera", Lines: []line{{Label: "a", Value: 1}}, Tags: []string{"x"}},
		},
	}
}

func (g *fakeGateway) search(ctx context.Context, query, _ string) ([]item, error) {
	g.mu.Lock()
	g.queries = append(g.queries, query)
	wait := g.block[query]
	g.mu.Unlock()
	if wait != nil {
		<-wait
	}
	if query == "falla" {
		return nil, errors.New("backend caído")
	}
	return g.rows[query], nil
}

func (g *fakeGateway) detail(_ context.Context, id string, _ item) (*record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.detailErr != nil {
		return nil, g.detailErr
	}
	d, ok := g.details[id]
	if !ok {
		return nil, nil
	}
	cp, _ := clone(*d)
	return &cp, nil
}

func (g *fakeGateway) save(_ context.Context, id string, r record) (*service.SaveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return nil, g.saveErr
	}
	g.saves = append(g.saves, r)
	g.details[id] = &r
	return &service.SaveResult{Success: true, Message: g.saveMsg}, nil
}

func (g *fakeGateway) queryCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queries)
}

func (g *fakeGateway) saveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.saves)
}

func newTestController(t *testing.T, g *fakeGateway) *Controller[item, record] {
	t.Helper()
	c := NewController(Entity[item, record]{
		Name:      "prueba",
		RequireID: true,
		RowID: func(it item) (string, error) {
			if it.ID == "" {
				return "", model.ErrMissingExpedienteID
			}
			return it.ID, nil
		},
		Blank: func(it item) record { return record{Name: it.Name, Lines: []line{}, Tags: []string{}} },
		Validate: func(r record) validation.Result {
			var errs []string
			errs = append(errs, validation.Required("El nombre es obligatorio", r.Name)...)
			return validation.Result{Valid: len(errs) == 0, Errors: errs}
		},
		Summarize: func(r record) any { return len(r.Lines) },
		Gateway: Gateway[item, record]{
			Search: g.search,
			Detail: g.detail,
			Save:   g.save,
		},
	}, Options{Debounce: 20 * time.Millisecond})
	t.Cleanup(c.Close)
	return c
}

func openFirst(t *testing.T, c *Controller[item, record], query string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.Search(ctx, query, ""))
	require.NoError(t, c.Select(ctx, 0))
	if st := c.State(); st != StateSelected {
		t.Fatalf("Expected state selected, got %s", st)
	}
}

func TestSearchBlankQueryMakesNoCall(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	if err := c.Search(context.Background(), "   ", ""); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	snap := c.Snapshot()
	if g.queryCount() != 0 {
		t.Errorf("Expected no backend call, got %d", g.queryCount())
	}
	if rows := snap.Results.([]item); len(rows) != 0 {
		t.Errorf("Expected empty results, got %v", rows)
	}
	if snap.Outcome == nil || snap.Outcome.Kind != OutcomeEmptyResult {
		t.Errorf("Expected empty_result outcome, got %+v", snap.Outcome)
	}
	if snap.State != StateListed {
		t.Errorf("Expected state listed, got %s", snap.State)
	}
}

func TestSearchResultsAndFailures(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)
	ctx := context.Background()

	require.NoError(t, c.Search(ctx, "  ana ", ""))
	snap := c.Snapshot()
	if rows := snap.Results.([]item); len(rows) != 2 {
		t.Errorf("Expected 2 results, got %d", len(rows))
	}
	if snap.Outcome.Kind != OutcomeResults {
		t.Errorf("Expected results outcome, got %s", snap.Outcome.Kind)
	}
	if g.queries[0] != "ana" {
		t.Errorf("Expected trimmed query, got %q", g.queries[0])
	}

	require.NoError(t, c.Search(ctx, "falla", ""))
	snap = c.Snapshot()
	if rows := snap.Results.([]item); len(rows) != 0 {
		t.Errorf("Expected failure to clear results, got %v", rows)
	}
	if snap.Outcome.Kind != OutcomeEmptyResult || snap.State != StateListed {
		t.Errorf("Unexpected snapshot after failure: %s %+v", snap.State, snap.Outcome)
	}
}

func TestQueryChangedDebouncesBursts(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	for _, q := range []string{"l", "lu", "lui", "luis"} {
		c.QueryChanged(q, "")
	}
	require.Eventually(t, func() bool {
		return g.queryCount() == 1 && c.State() == StateListed
	}, time.Second, 5*time.Millisecond)

	// nothing else fires once the window has passed
	time.Sleep(60 * time.Millisecond)
	if n := g.queryCount(); n != 1 {
		t.Fatalf("Expected one call per burst, got %d", n)
	}
	if g.queries[0] != "luis" {
		t.Errorf("Expected the last query, got %q", g.queries[0])
	}
	if rows := c.Snapshot().Results.([]item); len(rows) != 1 {
		t.Errorf("Expected 1 result, got %d", len(rows))
	}
}

func TestStaleSearchIsDiscarded(t *testing.T) {
	g := newFakeGateway()
	release := make(chan struct{})
	g.block["ana"] = release
	c := newTestController(t, g)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Search(ctx, "ana", "") }()
	require.Eventually(t, func() bool { return g.queryCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.Search(ctx, "luis", ""))
	close(release)
	require.NoError(t, <-done)

	rows := c.Snapshot().Results.([]item)
	if len(rows) != 1 || rows[0].Name != "Luis" {
		t.Errorf("Expected only the newer results, got %v", rows)
	}
}

func TestSelectWithoutIDIsPrecondition(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	require.NoError(t, c.Search(context.Background(), "sin", ""))
	require.NoError(t, c.Select(context.Background(), 0))

	snap := c.Snapshot()
	if snap.State != StateListed {
		t.Errorf("Expected to stay listed, got %s", snap.State)
	}
	if snap.Outcome == nil || snap.Outcome.Kind != OutcomePreconditionError {
		t.Errorf("Expected precondition_error, got %+v", snap.Outcome)
	}

	if err := c.Select(context.Background(), 5); err == nil {
		t.Error("Expected error for an out of range row")
	}
}

func TestSelectLoadsDetailOrBlank(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	openFirst(t, c, "ana")
	snap := c.Snapshot()
	view := snap.View.(record)
	if view.Notes != "primera" {
		t.Errorf("Expected stored record, got %+v", view)
	}
	if snap.ID != "1" || snap.Outcome.Kind != OutcomeLoaded {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	// switching rows goes back through the list
	require.NoError(t, c.Back())
	require.NoError(t, c.Select(context.Background(), 1))
	view = c.Snapshot().View.(record)
	if view.Name != "Anabel" || view.Notes != "" {
		t.Errorf("Expected blank record for a row without detail, got %+v", view)
	}
}

func TestSelectDetailErrorShowsBlank(t *testing.T) {
	g := newFakeGateway()
	g.detailErr = errors.New("timeout")
	c := newTestController(t, g)

	openFirst(t, c, "ana")
	snap := c.Snapshot()
	if snap.Outcome.Message != "No se pudo cargar el registro" {
		t.Errorf("Unexpected message %q", snap.Outcome.Message)
	}
	if view := snap.View.(record); view.Name != "Ana" || view.Notes != "" {
		t.Errorf("Expected blank record, got %+v", view)
	}
}

func TestCancelRestoresView(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)
	openFirst(t, c, "ana")
	before := c.Snapshot().View

	require.NoError(t, c.Edit())
	require.NoError(t, c.ApplyDraft(json.RawMessage(`{"name":"Otro","notes":null}`)))
	require.NoError(t, c.AddRow("lines", json.RawMessage(`{"label":"b","value":2}`)))
	require.NoError(t, c.EditRow("tags", 0, json.RawMessage(`"y"`)))

	if diff := cmp.Diff(before, c.Snapshot().View); diff != "" {
		t.Errorf("Editing must not touch the view (-before +after):\n%s", diff)
	}

	require.NoError(t, c.Cancel())
	snap := c.Snapshot()
	if diff := cmp.Diff(before, snap.View); diff != "" {
		t.Errorf("Cancel must restore the view (-before +after):\n%s", diff)
	}
	if snap.Draft != nil || snap.State != StateSelected {
		t.Errorf("Expected no draft in selected, got %s %+v", snap.State, snap.Draft)
	}
	if g.saveCount() != 0 {
		t.Errorf("Expected no save, got %d", g.saveCount())
	}
}

func TestDraftRows(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)
	openFirst(t, c, "ana")
	require.NoError(t, c.Edit())

	require.NoError(t, c.AddRow("lines", nil))
	require.NoError(t, c.EditRow("lines", 1, json.RawMessage(`{"value":7}`)))
	require.NoError(t, c.AddRow("lines", json.RawMessage(`{"label":"c","value":3}`)))
	require.NoError(t, c.DeleteRow("lines", 0))

	snap := c.Snapshot()
	draft := snap.Draft.(record)
	expected := []line{{Value: 7}, {Label: "c", Value: 3}}
	if diff := cmp.Diff(expected, draft.Lines); diff != "" {
		t.Errorf("Unexpected rows (-want +got):\n%s", diff)
	}
	if snap.Summary != 2 {
		t.Errorf("Expected summary from the draft, got %v", snap.Summary)
	}

	if err := c.DeleteRow("lines", 9); err == nil {
		t.Error("Expected error for an out of range row")
	}
	if err := c.AddRow("missing", nil); err == nil {
		t.Error("Expected error for an unknown list field")
	}
	if err := c.ApplyDraft(json.RawMessage(`{"lines":"no"}`)); err == nil {
		t.Error("Expected error for a patch that does not fit")
	}
}

func TestSaveValidationErrorsMakeNoCall(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)
	openFirst(t, c, "ana")
	require.NoError(t, c.Edit())
	require.NoError(t, c.ApplyDraft(json.RawMessage(`{"name":"  "}`)))

	require.NoError(t, c.Save(context.Background()))
	snap := c.Snapshot()
	if snap.State != StateEditing {
		t.Errorf("Expected to stay editing, got %s", snap.State)
	}
	if snap.Outcome.Kind != OutcomeValidationErrors || len(snap.Outcome.Errors) != 1 {
		t.Errorf("Unexpected outcome %+v", snap.Outcome)
	}
	if g.saveCount() != 0 {
		t.Errorf("Expected no save call, got %d", g.saveCount())
	}
}

func TestSaveWithoutIDIsPrecondition(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	require.NoError(t, c.New())
	require.NoError(t, c.Edit())
	require.NoError(t, c.ApplyDraft(json.RawMessage(`{"name":"Nuevo"}`)))
	require.NoError(t, c.Save(context.Background()))

	snap := c.Snapshot()
	if snap.Outcome.Kind != OutcomePreconditionError {
		t.Errorf("Expected precondition_error, got %+v", snap.Outcome)
	}
	if snap.Outcome.Message != model.ErrMissingExpedienteID.Error() {
		t.Errorf("Unexpected message %q", snap.Outcome.Message)
	}
	if g.saveCount() != 0 || g.queryCount() != 0 {
		t.Errorf("Expected zero calls, got %d saves %d searches", g.saveCount(), g.queryCount())
	}
}

func TestSaveSuccessReconciles(t *testing.T) {
	g := newFakeGateway()
	g.saveMsg = "Registro actualizado"
	c := newTestController(t, g)
	openFirst(t, c, "ana")

	require.NoError(t, c.Edit())
	require.NoError(t, c.ApplyDraft(json.RawMessage(`{"notes":"segunda"}`)))
	require.NoError(t, c.Save(context.Background()))

	snap := c.Snapshot()
	if snap.State != StateSelected {
		t.Errorf("Expected to settle in selected, got %s", snap.State)
	}
	if snap.Outcome.Kind != OutcomeSuccess || snap.Outcome.Message != "Registro actualizado" {
		t.Errorf("Unexpected outcome %+v", snap.Outcome)
	}
	if view := snap.View.(record); view.Notes != "segunda" {
		t.Errorf("Expected refetched record, got %+v", view)
	}
	if snap.Draft != nil {
		t.Error("Expected draft cleared after save")
	}
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"backend message verbatim", &service.APIError{Status: 409, Message: "El registro fue modificado por otro usuario"}, "El registro fue modificado por otro usuario"},
		{"fallback message", errors.New("connection refused"), DefaultSaveError},
		{"api error without message", &service.APIError{Status: 500}, DefaultSaveError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGateway()
			g.saveErr = tt.err
			c := newTestController(t, g)
			openFirst(t, c, "ana")
			require.NoError(t, c.Edit())
			require.NoError(t, c.ApplyDraft(json.RawMessage(`{"notes":"cambio"}`)))

			require.NoError(t, c.Save(context.Background()))
			snap := c.Snapshot()
			if snap.State != StateSaveFailed {
				t.Fatalf("Expected save_failed, got %s", snap.State)
			}
			if snap.Outcome.Kind != OutcomeSaveError || snap.Outcome.Message != tt.expected {
				t.Errorf("Unexpected outcome %+v", snap.Outcome)
			}
			if draft := snap.Draft.(record); draft.Notes != "cambio" {
				t.Errorf("Expected draft kept, got %+v", draft)
			}

			// editing again leaves save_failed
			require.NoError(t, c.ApplyDraft(json.RawMessage(`{"notes":"otra vez"}`)))
			if st := c.State(); st != StateEditing {
				t.Errorf("Expected editing after modify, got %s", st)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	if err := c.Edit(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for edit, got %v", err)
	}
	if err := c.Save(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for save, got %v", err)
	}
	if err := c.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for cancel, got %v", err)
	}
	if err := c.ApplyDraft(json.RawMessage(`{}`)); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for draft, got %v", err)
	}

	openFirst(t, c, "ana")
	require.NoError(t, c.Edit())
	if err := c.Search(context.Background(), "luis", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for search while editing, got %v", err)
	}
}

func TestSubscribeLatestWins(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)

	ch, unsubscribe := c.Subscribe()
	first := <-ch
	if first.State != StateListed {
		t.Errorf("Expected initial snapshot, got %s", first.State)
	}

	openFirst(t, c, "ana")
	latest := <-ch
	if latest.Version != c.Snapshot().Version {
		t.Errorf("Expected latest version %d, got %d", c.Snapshot().Version, latest.Version)
	}
	if latest.State != StateSelected {
		t.Errorf("Expected selected, got %s", latest.State)
	}

	unsubscribe()
	for range ch {
	}
}

func TestCloseEndsWorkflow(t *testing.T) {
	g := newFakeGateway()
	c := newTestController(t, g)
	ch, _ := c.Subscribe()
	<-ch

	c.QueryChanged("ana", "")
	c.Close()
	c.Close()

	// a snapshot may still be buffered; the channel must end after it
	for range ch {
	}
	if _, ok := <-ch; ok {
		t.Error("Expected subscription closed")
	}
	if err := c.Search(context.Background(), "ana", ""); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if n := g.queryCount(); n != 0 {
		t.Errorf("Expected pending search dropped, got %d calls", n)
	}
}

func TestMergeRawNullRemovesKey(t *testing.T) {
	out, err := mergeRaw(json.RawMessage(`{"a":1,"b":{"c":2,"d":3}}`), json.RawMessage(`{"a":null,"b":{"c":5}}`))
	require.NoError(t, err)
	if !strings.Contains(string(out), `"c":5`) || strings.Contains(string(out), `"a"`) || !strings.Contains(string(out), `"d":3`) {
		t.Errorf("Unexpected merge %s", out)
	}
}
