package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/records"
)

// stubGateway answers from function fields and counts calls per verb.
type stubGateway struct {
	mu      sync.Mutex
	calls   map[string]int
	list    func(ctx context.Context) ([]records.Record, error)
	get     func(ctx context.Context, id int64) (records.Record, error)
	create  func(ctx context.Context, d records.Draft) (records.Record, error)
	replace func(ctx context.Context, id int64, r records.Record) (records.Record, error)
	remove  func(ctx context.Context, id int64) error
}

func (g *stubGateway) count(verb string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[verb]++
}

func (g *stubGateway) Calls(verb string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[verb]
}

func (g *stubGateway) List(ctx context.Context) ([]records.Record, error) {
	g.count("list")
	return g.list(ctx)
}

func (g *stubGateway) Get(ctx context.Context, id int64) (records.Record, error) {
	g.count("get")
	return g.get(ctx, id)
}

func (g *stubGateway) Create(ctx context.Context, d records.Draft) (records.Record, error) {
	g.count("create")
	return g.create(ctx, d)
}

func (g *stubGateway) Replace(ctx context.Context, id int64, r records.Record) (records.Record, error) {
	g.count("replace")
	return g.replace(ctx, id, r)
}

func (g *stubGateway) Remove(ctx context.Context, id int64) error {
	g.count("remove")
	return g.remove(ctx, id)
}

// echoGateway lists seed and echoes every write like the public demo API.
func echoGateway(seed []records.Record) *stubGateway {
	nextID := int64(len(seed))
	return &stubGateway{
		list: func(context.Context) ([]records.Record, error) {
			return append([]records.Record(nil), seed...), nil
		},
		get: func(_ context.Context, id int64) (records.Record, error) {
			for _, r := range seed {
				if r.ID == id {
					return r, nil
				}
			}
			return records.Record{}, &records.StatusError{Method: http.MethodGet, Code: http.StatusNotFound}
		},
		create: func(_ context.Context, d records.Draft) (records.Record, error) {
			nextID++
			return d.WithID(nextID), nil
		},
		replace: func(_ context.Context, id int64, r records.Record) (records.Record, error) {
			r.ID = id
			return r, nil
		},
		remove: func(context.Context, int64) error { return nil },
	}
}

func seed(n int) []records.Record {
	out := make([]records.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, records.Record{ID: int64(i), Title: "post", Body: "body", OwnerID: int64((i-1)/10 + 1)})
	}
	return out
}

func newSession(t *testing.T, gw *stubGateway, opts Options) *Session {
	t.Helper()
	opts.Gateway = gw
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func fetched(t *testing.T, gw *stubGateway, opts Options) *Session {
	t.Helper()
	s := newSession(t, gw, opts)
	require.NoError(t, s.FetchAll(context.Background()).Err)
	return s
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoGateway)

	_, err = New(Options{Gateway: echoGateway(nil), Strategy: "bogus"})
	assert.Error(t, err)

	s, err := New(Options{Gateway: echoGateway(nil)})
	require.NoError(t, err)
	assert.Equal(t, query.DefaultParams(), s.Params())
	assert.Equal(t, ApplyEcho, s.Strategy())
	assert.Empty(t, s.Records())
}

func TestFetchAll_ReplacesCollection(t *testing.T) {
	s := newSession(t, echoGateway(seed(3)), Options{})

	res := s.FetchAll(context.Background())
	require.True(t, res.OK())
	assert.Len(t, res.Data, 3)
	assert.Equal(t, seed(3), s.Records())

	st := s.Status()
	assert.False(t, st.Loading)
	assert.NoError(t, st.LastError)
	assert.Equal(t, 0, st.InFlight)
}

func TestFetchAll_FailureKeepsCollection(t *testing.T) {
	gw := echoGateway(seed(3))
	s := fetched(t, gw, Options{})

	gw.list = func(context.Context) ([]records.Record, error) {
		return nil, &records.StatusError{Method: http.MethodGet, Path: "/posts", Code: http.StatusServiceUnavailable}
	}
	res := s.FetchAll(context.Background())
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, records.ErrServer)
	assert.Nil(t, res.Data)

	assert.Equal(t, seed(3), s.Records())
	st := s.Status()
	assert.False(t, st.Loading)
	assert.ErrorIs(t, st.LastError, records.ErrServer)

	// The next success clears the shared error.
	gw.list = echoGateway(seed(1)).list
	require.NoError(t, s.FetchAll(context.Background()).Err)
	assert.NoError(t, s.Status().LastError)
}

func TestFetchAll_ReturnsToFirstPage(t *testing.T) {
	s := fetched(t, echoGateway(seed(30)), Options{})
	s.Coordinator().SetPage(3)
	require.Equal(t, 3, s.Params().Page)

	require.NoError(t, s.FetchAll(context.Background()).Err)
	assert.Equal(t, 1, s.Params().Page)
}

func TestGet_DoesNotTouchCollection(t *testing.T) {
	s := fetched(t, echoGateway(seed(3)), Options{})
	before := s.Records()

	res := s.Get(context.Background(), 2)
	require.NoError(t, res.Err)
	assert.Equal(t, int64(2), res.Data.ID)

	res = s.Get(context.Background(), 42)
	assert.ErrorIs(t, res.Err, records.ErrNotFound)
	assert.ErrorIs(t, s.Status().LastError, records.ErrNotFound)

	res = s.Get(context.Background(), 0)
	assert.ErrorIs(t, res.Err, records.ErrValidation)
	assert.Equal(t, before, s.Records())
}

func TestCreate_InsertsAtFront(t *testing.T) {
	gw := echoGateway(seed(5))
	s := fetched(t, gw, Options{})

	res := s.Create(context.Background(), records.Draft{Title: "X", Body: "new", OwnerID: 1})
	require.NoError(t, res.Err)
	assert.Equal(t, records.Record{ID: 6, Title: "X", Body: "new", OwnerID: 1}, res.Data)

	got := s.Records()
	require.Len(t, got, 6)
	assert.Equal(t, res.Data, got[0])
}

func TestCreate_InsertionOrderDecidesTiesButSortDecidesOrder(t *testing.T) {
	gw := echoGateway([]records.Record{
		{ID: 1, Title: "b", OwnerID: 1},
		{ID: 2, Title: "c", OwnerID: 1},
	})
	s := fetched(t, gw, Options{})
	require.NoError(t, s.Create(context.Background(), records.Draft{Title: "X", OwnerID: 1}).Err)

	// Sorting by owner leaves every record tied, so collection order shows.
	s.Coordinator().SetSort(query.SortByOwner, query.Ascending)
	assert.Equal(t, "X", s.View().Items[0].Title)

	// An explicit title sort decides the position instead.
	s.Coordinator().SetSort(query.SortByTitle, query.Descending)
	items := s.View().Items
	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "b", "X"}, []string{items[0].Title, items[1].Title, items[2].Title})
}

func TestCreate_ValidationSkipsNetwork(t *testing.T) {
	gw := echoGateway(seed(2))
	s := fetched(t, gw, Options{})

	res := s.Create(context.Background(), records.Draft{Title: "  ", OwnerID: 1})
	require.ErrorIs(t, res.Err, records.ErrValidation)
	var verr *records.ValidationError
	require.ErrorAs(t, res.Err, &verr)
	assert.Equal(t, "title", verr.Field)

	assert.Zero(t, gw.Calls("create"))
	assert.ErrorIs(t, s.Status().LastError, records.ErrValidation)
	assert.False(t, s.Status().Loading)
	assert.Len(t, s.Records(), 2)
}

func TestCreate_DraftStrategyKeepsInputWithServerID(t *testing.T) {
	gw := echoGateway(seed(2))
	gw.create = func(context.Context, records.Draft) (records.Record, error) {
		return records.Record{ID: 101, Title: "server title", OwnerID: 9}, nil
	}
	s := fetched(t, gw, Options{Strategy: ApplyDraft})

	res := s.Create(context.Background(), records.Draft{Title: "mine", Body: "b", OwnerID: 1})
	require.NoError(t, res.Err)
	assert.Equal(t, records.Record{ID: 101, Title: "mine", Body: "b", OwnerID: 1}, s.Records()[0])
}

func TestCreate_ReturnsToFirstPage(t *testing.T) {
	s := fetched(t, echoGateway(seed(30)), Options{})
	s.Coordinator().SetPage(2)
	require.NoError(t, s.Create(context.Background(), records.Draft{Title: "t", OwnerID: 1}).Err)
	assert.Equal(t, 1, s.Params().Page)
}

func TestUpdate_ReplacesWholesaleWithServerPayload(t *testing.T) {
	gw := echoGateway(seed(3))
	gw.replace = func(_ context.Context, id int64, r records.Record) (records.Record, error) {
		return records.Record{ID: id, Title: r.Title + " (server)", OwnerID: r.OwnerID}, nil
	}
	s := fetched(t, gw, Options{})

	res := s.Update(context.Background(), records.Record{ID: 2, Title: "edited", Body: "new body", OwnerID: 4})
	require.NoError(t, res.Err)

	got := s.Records()
	assert.Equal(t, records.Record{ID: 2, Title: "edited (server)", OwnerID: 4}, got[1], "no field-by-field merge")
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestUpdate_UnchangedPayloadRoundTrips(t *testing.T) {
	s := fetched(t, echoGateway(seed(4)), Options{})
	before := s.Records()

	res := s.Update(context.Background(), before[2])
	require.NoError(t, res.Err)
	assert.Equal(t, before, s.Records())
}

func TestUpdate_RequiresKnownID(t *testing.T) {
	gw := echoGateway(seed(2))
	s := fetched(t, gw, Options{})

	res := s.Update(context.Background(), records.Record{ID: 77, Title: "x", OwnerID: 1})
	var verr *records.ValidationError
	require.ErrorAs(t, res.Err, &verr)
	assert.Equal(t, "id", verr.Field)
	assert.Zero(t, gw.Calls("replace"))

	res = s.Update(context.Background(), records.Record{ID: 1, Title: "", OwnerID: 1})
	assert.ErrorIs(t, res.Err, records.ErrValidation)
	assert.Zero(t, gw.Calls("replace"))
}

func TestUpdate_DraftStrategyAppliesInput(t *testing.T) {
	gw := echoGateway(seed(2))
	gw.replace = func(_ context.Context, id int64, _ records.Record) (records.Record, error) {
		return records.Record{ID: id, Title: "ignored", OwnerID: 1}, nil
	}
	s := fetched(t, gw, Options{Strategy: ApplyDraft})

	input := records.Record{ID: 1, Title: "mine", Body: "b", OwnerID: 3}
	require.NoError(t, s.Update(context.Background(), input).Err)
	assert.Equal(t, input, s.Records()[0])
}

func TestUpdate_FailureLeavesCollection(t *testing.T) {
	gw := echoGateway(seed(2))
	gw.replace = func(context.Context, int64, records.Record) (records.Record, error) {
		return records.Record{}, errors.Join(records.ErrTransport, errors.New("connection reset"))
	}
	s := fetched(t, gw, Options{})

	res := s.Update(context.Background(), records.Record{ID: 1, Title: "x", OwnerID: 1})
	assert.ErrorIs(t, res.Err, records.ErrTransport)
	assert.Equal(t, seed(2), s.Records())
}

func TestDelete_EmptyPageStepsBack(t *testing.T) {
	s := fetched(t, echoGateway(seed(11)), Options{})
	s.Coordinator().SetPage(2)
	require.Len(t, s.View().Items, 1)

	require.NoError(t, s.Delete(context.Background(), 11).Err)
	assert.Equal(t, 1, s.Params().Page)
	assert.Len(t, s.Records(), 10)
	assert.Len(t, s.View().Items, 10)
}

func TestDelete_FailureLeavesCollection(t *testing.T) {
	gw := echoGateway(seed(11))
	gw.remove = func(context.Context, int64) error {
		return &records.StatusError{Method: http.MethodDelete, Code: http.StatusNotFound}
	}
	s := fetched(t, gw, Options{})
	s.Coordinator().SetPage(2)

	res := s.Delete(context.Background(), 11)
	assert.ErrorIs(t, res.Err, records.ErrNotFound)
	assert.Len(t, s.Records(), 11)
	assert.Equal(t, 2, s.Params().Page)

	res = s.Delete(context.Background(), -1)
	assert.ErrorIs(t, res.Err, records.ErrValidation)
	assert.Equal(t, 1, gw.Calls("remove"))
}

func TestOwnerFilterResetsPage(t *testing.T) {
	s := fetched(t, echoGateway(seed(40)), Options{})
	s.Coordinator().SetPage(3)

	s.Coordinator().SetOwner(2)
	assert.Equal(t, 1, s.Params().Page)

	s.Coordinator().ClearOwner()
	s.Coordinator().SetPage(3)
	require.Equal(t, 3, s.Params().Page)
	s.Coordinator().ClearOwner()
	assert.Equal(t, 1, s.Params().Page, "clearing an absent filter still resets")
}

func TestAlphaBetaScenario(t *testing.T) {
	s := fetched(t, echoGateway([]records.Record{
		{ID: 1, Title: "Alpha", OwnerID: 1},
		{ID: 2, Title: "Beta", OwnerID: 2},
	}), Options{})

	s.Coordinator().SetSearch("al")
	view := s.View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(1), view.Items[0].ID)
	assert.Equal(t, 1, view.TotalPages)
}

func TestView_CachedUntilSomethingChanges(t *testing.T) {
	s := fetched(t, echoGateway(seed(15)), Options{})

	first := s.View()
	second := s.View()
	require.NotEmpty(t, first.Items)
	assert.Same(t, &first.Items[0], &second.Items[0])

	s.Coordinator().NextPage()
	third := s.View()
	assert.Equal(t, int64(11), third.Items[0].ID)

	require.NoError(t, s.Delete(context.Background(), 11).Err)
	assert.Equal(t, int64(12), s.View().Items[0].ID)
}

func TestGatewayPanicIsRecovered(t *testing.T) {
	gw := echoGateway(seed(1))
	gw.list = func(context.Context) ([]records.Record, error) { panic("nil map") }
	s := newSession(t, gw, Options{})

	res := s.FetchAll(context.Background())
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "gateway panic")
	st := s.Status()
	assert.False(t, st.Loading)
	assert.Equal(t, 0, st.InFlight)
	assert.Error(t, st.LastError)
}

func TestOverlappingFetches_LastToResolveWins(t *testing.T) {
	older := []records.Record{{ID: 1, Title: "old", OwnerID: 1}}
	newer := []records.Record{{ID: 2, Title: "new", OwnerID: 1}}

	release := []chan []records.Record{make(chan []records.Record), make(chan []records.Record)}
	var calls atomic.Int32
	gw := echoGateway(nil)
	gw.list = func(context.Context) ([]records.Record, error) {
		idx := calls.Add(1) - 1
		return <-release[idx], nil
	}
	s := newSession(t, gw, Options{})
	ctx := context.Background()

	doneA := make(chan Result[[]records.Record], 1)
	go func() { doneA <- s.FetchAll(ctx) }()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	doneB := make(chan Result[[]records.Record], 1)
	go func() { doneB <- s.FetchAll(ctx) }()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)

	st := s.Status()
	assert.Equal(t, 2, st.InFlight)
	assert.Equal(t, uint64(1), st.Overlaps)

	// The later call resolves first...
	release[1] <- newer
	require.NoError(t, (<-doneB).Err)
	assert.Equal(t, newer, s.Records())
	assert.False(t, s.Status().Loading, "the first settle clears Loading while A is still in flight")
	assert.Equal(t, 1, s.Status().InFlight)

	// ...and the superseded call still applies when it lands.
	release[0] <- older
	require.NoError(t, (<-doneA).Err)
	assert.Equal(t, older, s.Records())
	assert.Equal(t, 0, s.Status().InFlight)
}

func TestDeleteRacingFetch_ResurrectsRecord(t *testing.T) {
	listRelease := make(chan struct{})
	var listing atomic.Bool
	gw := echoGateway(seed(3))
	baseList := gw.list
	s := fetched(t, gw, Options{})

	gw.list = func(ctx context.Context) ([]records.Record, error) {
		listing.Store(true)
		<-listRelease
		return baseList(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.FetchAll(context.Background())
		close(done)
	}()
	require.Eventually(t, listing.Load, time.Second, time.Millisecond)

	require.NoError(t, s.Delete(context.Background(), 2).Err)
	assert.Len(t, s.Records(), 2)

	close(listRelease)
	<-done
	assert.Len(t, s.Records(), 3, "a fetch that resolves after a delete brings the record back")
}

type countingRecorder struct {
	mu      sync.Mutex
	begun   map[string]int
	settled map[string][]error
}

func (r *countingRecorder) Begin(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.begun == nil {
		r.begun = make(map[string]int)
	}
	r.begun[op]++
}

func (r *countingRecorder) Settle(op string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled == nil {
		r.settled = make(map[string][]error)
	}
	r.settled[op] = append(r.settled[op], err)
}

func TestRecorderAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &countingRecorder{}
	gw := echoGateway(seed(2))
	s := newSession(t, gw, Options{Logger: zap.New(core), Recorder: rec})

	require.NoError(t, s.FetchAll(context.Background()).Err)
	require.Error(t, s.Create(context.Background(), records.Draft{}).Err)

	assert.Equal(t, 1, rec.begun[OpFetch])
	assert.Equal(t, 1, rec.begun[OpCreate])
	require.Len(t, rec.settled[OpCreate], 1)
	assert.ErrorIs(t, rec.settled[OpCreate][0], records.ErrValidation)

	warned := logs.FilterMessage("operation failed").All()
	require.Len(t, warned, 1)
	assert.Equal(t, zapcore.WarnLevel, warned[0].Level)
	assert.Equal(t, "validation", warned[0].ContextMap()["kind"])
	assert.Equal(t, 1, logs.FilterMessage("operation settled").Len())
}

func TestResultUnwrapAndStrategyParsing(t *testing.T) {
	data, err := Result[int]{Data: 3}.Unwrap()
	assert.Equal(t, 3, data)
	assert.NoError(t, err)

	for raw, want := range map[string]WriteStrategy{"": ApplyEcho, "ECHO": ApplyEcho, " draft ": ApplyDraft} {
		got, err := ParseWriteStrategy(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = ParseWriteStrategy("merge")
	assert.Error(t, err)
}
