package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enfoco/enfoco/internal/carousel"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	nav, err := carousel.New(carousel.DefaultItems(), carousel.Config{})
	require.NoError(t, err)
	s := NewStore(nav, time.Minute, nil)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = clock.now
	return s, clock
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	v := s.Create()
	require.NotEmpty(t, v.ID)
	assert.Equal(t, 0, v.ActiveIndex)
	assert.Equal(t, carousel.ModeIdle, v.Mode)
	assert.Equal(t, 1, v.ActiveItem.ID)

	got, ok := s.Get(v.ID)
	require.True(t, ok)
	assert.Equal(t, v.ID, got.ID)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.Create()
	b := s.Create()

	_, ok := s.Next(a.ID)
	require.True(t, ok)

	va, _ := s.Get(a.ID)
	vb, _ := s.Get(b.ID)
	assert.Equal(t, 1, va.ActiveIndex)
	assert.Equal(t, 0, vb.ActiveIndex)
}

func TestNavigationFlow(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create().ID

	v, _ := s.Previous(id)
	assert.Equal(t, 5, v.ActiveIndex)
	assert.InDelta(t, 300, v.TargetAngle, 1e-9)
	assert.Equal(t, carousel.OutcomeMoved, v.Outcome)

	v, _ = s.Select(id, 6)
	assert.Equal(t, carousel.OutcomeOpened, v.Outcome)
	assert.Equal(t, carousel.ModeDetail, v.Mode)
	assert.Equal(t, carousel.KindVault, v.Detail)

	v, _ = s.Scroll(id, 500)
	assert.Equal(t, carousel.OutcomeSuppressed, v.Outcome)
	assert.Equal(t, 5, v.ActiveIndex)

	v, _ = s.Back(id)
	assert.Equal(t, carousel.OutcomeClosed, v.Outcome)
	assert.Equal(t, carousel.ModeIdle, v.Mode)

	v, _ = s.Select(id, 42)
	assert.Equal(t, carousel.OutcomeIgnored, v.Outcome)
}

func TestScrollCooldownUsesStoreClock(t *testing.T) {
	s, clock := newTestStore(t)
	id := s.Create().ID

	v, _ := s.Scroll(id, 30)
	assert.Equal(t, carousel.OutcomeMoved, v.Outcome)
	v, _ = s.Scroll(id, 30)
	assert.Equal(t, carousel.OutcomeCooldown, v.Outcome)

	clock.advance(carousel.DefaultScrollCooldown)
	v, _ = s.Scroll(id, -30)
	assert.Equal(t, carousel.OutcomeMoved, v.Outcome)
	assert.Equal(t, 0, v.ActiveIndex)
}

func TestRotorFollowsShortestPath(t *testing.T) {
	s, clock := newTestStore(t)
	id := s.Create().ID

	v, _ := s.Previous(id)
	assert.InDelta(t, 300, v.TargetAngle, 1e-9)
	assert.InDelta(t, 0, v.Angle, 1e-9, "no time has passed")

	clock.advance(10 * time.Second)
	v, _ = s.Get(id)
	assert.InDelta(t, -60, v.Angle, 1e-6, "the ring turns backwards one slot, not forwards five")
	assert.InDelta(t, 60, v.CounterRotation, 1e-6)
}

func TestUnknownSessionActions(t *testing.T) {
	s, _ := newTestStore(t)
	for _, fn := range []func(string) (View, bool){s.Next, s.Previous, s.Back} {
		_, ok := fn("nope")
		assert.False(t, ok)
	}
	_, ok := s.Select("nope", 1)
	assert.False(t, ok)
	_, ok = s.Scroll("nope", 100)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create().ID
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Delete(id))
	assert.False(t, s.Delete(id))
	_, ok := s.Get(id)
	assert.False(t, ok)
}

func TestSearchGenerations(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create().ID

	first, ok := s.BeginSearch(id, "visual")
	require.True(t, ok)
	second, _ := s.BeginSearch(id, "visual")
	other, _ := s.BeginSearch(id, "sonic")

	assert.False(t, s.FinishSearch(id, "visual", first), "superseded search is stale")
	assert.True(t, s.FinishSearch(id, "visual", second))
	assert.True(t, s.FinishSearch(id, "sonic", other), "sections are tracked separately")

	_, ok = s.BeginSearch("nope", "visual")
	assert.False(t, ok)

	s.Delete(id)
	assert.False(t, s.FinishSearch(id, "visual", second))
}

func TestConcurrentInputsApplyOneAtATime(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create().ID

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Next(id)
		}()
	}
	wg.Wait()

	v, _ := s.Get(id)
	assert.Equal(t, 0, v.ActiveIndex, "60 steps on a ring of 6 land where they started")
}

func TestDeleteIsNotUndoneByConcurrentInput(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 500; i++ {
		id := s.Create().ID

		stop := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-stop:
					return
				default:
					s.Next(id)
				}
			}
		}()

		require.True(t, s.Delete(id))
		close(stop)
		<-done

		_, ok := s.Get(id)
		require.False(t, ok, "session %d survived its delete", i)
		_, ok = s.Next(id)
		require.False(t, ok)
	}
	assert.Equal(t, 0, s.Len())
}

func TestDeleteReportsOnce(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create().ID

	var wg sync.WaitGroup
	var mu sync.Mutex
	deleted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Delete(id) {
				mu.Lock()
				deleted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, deleted)
}

func newTestRouter(t *testing.T) (http.Handler, *Store) {
	t.Helper()
	s, _ := newTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, s)
	return r, s
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestRoutes_Items(t *testing.T) {
	h, _ := newTestRouter(t)
	w := do(h, http.MethodGet, "/api/helix/items", "")
	require.Equal(t, http.StatusOK, w.Code)

	var items []carousel.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 6)
	assert.Equal(t, carousel.KindArticle, items[0].Kind)
}

func TestRoutes_SessionLifecycle(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(h, http.MethodPost, "/api/sessions/", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var v View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	base := "/api/sessions/" + v.ID

	w = do(h, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, 1, v.ActiveIndex)

	w = do(h, http.MethodPost, base+"/select", `{"id":2}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, carousel.ModeDetail, v.Mode)
	assert.Equal(t, carousel.KindVideo, v.Detail)

	w = do(h, http.MethodPost, base+"/back", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, carousel.ModeIdle, v.Mode)

	w = do(h, http.MethodPost, base+"/scroll", `{"delta":-45}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, 0, v.ActiveIndex)

	w = do(h, http.MethodPost, base+"/previous", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, 5, v.ActiveIndex)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, base, "").Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, base, "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, base, "").Code)
}

func TestRoutes_BadInput(t *testing.T) {
	h, s := newTestRouter(t)
	base := "/api/sessions/" + s.Create().ID

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, base+"/select", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, base+"/scroll", `{"delta":"big"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/sessions/nope/next", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/api/sessions/nope/select", `{"id":1}`).Code)
}
