package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/keycalc"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testStore(opts Options) (*Store, *clock) {
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts.Now = c.Now
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(opts), c
}

func press(keys string) func(b *keycalc.Builder) error {
	return func(b *keycalc.Builder) error { return b.PressAll(keys) }
}

func TestCreateGet(t *testing.T) {
	st, _ := testStore(Options{})
	s, err := st.Create()
	require.NoError(t, err)
	_, err = uuid.Parse(s.ID())
	assert.NoError(t, err)

	got, err := st.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	state, err := got.Do(st.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, State{ID: s.ID(), Expression: "0", Result: "0"}, state)
}

func TestGetMissing(t *testing.T) {
	st, _ := testStore(Options{})
	_, err := st.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	st, _ := testStore(Options{})
	s, err := st.Create()
	require.NoError(t, err)
	require.NoError(t, st.Delete(s.ID()))
	assert.ErrorIs(t, st.Delete(s.ID()), ErrNotFound)
	_, err = st.Get(s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestCreateLimit(t *testing.T) {
	st, _ := testStore(Options{MaxSessions: 2})
	a, err := st.Create()
	require.NoError(t, err)
	_, err = st.Create()
	require.NoError(t, err)
	_, err = st.Create()
	assert.ErrorIs(t, err, ErrFull)

	require.NoError(t, st.Delete(a.ID()))
	_, err = st.Create()
	assert.NoError(t, err)
}

func TestDoState(t *testing.T) {
	st, _ := testStore(Options{})
	s, err := st.Create()
	require.NoError(t, err)

	state, err := s.Do(st.Now(), press("2+3*4="))
	require.NoError(t, err)
	assert.Equal(t, "2+3*4", state.Expression)
	assert.Equal(t, "14", state.Result)
	assert.Empty(t, state.Error)

	state, err = s.Do(st.Now(), press("/0="))
	require.NoError(t, err)
	assert.Equal(t, "2+3*4/0", state.Expression)
	assert.Equal(t, keycalc.ErrorText, state.Result)
	assert.Contains(t, state.Error, "division")

	_, err = s.Do(st.Now(), press("?"))
	var ke *keycalc.UnknownKeyError
	assert.ErrorAs(t, err, &ke)
}

func TestMaxExprLen(t *testing.T) {
	st, _ := testStore(Options{MaxExprLen: 3})
	s, err := st.Create()
	require.NoError(t, err)
	state, err := s.Do(st.Now(), press("123456"))
	require.NoError(t, err)
	assert.Equal(t, "123", state.Expression)
}

func TestIsolation(t *testing.T) {
	st, _ := testStore(Options{})
	a, err := st.Create()
	require.NoError(t, err)
	b, err := st.Create()
	require.NoError(t, err)

	_, err = a.Do(st.Now(), press("7*6="))
	require.NoError(t, err)
	state, err := b.Do(st.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, "0", state.Expression)
	assert.Equal(t, "0", state.Result)
}

func TestConcurrentSessions(t *testing.T) {
	st, _ := testStore(Options{})
	const n = 16
	ids := make([]string, n)
	for i := range ids {
		s, err := st.Create()
		require.NoError(t, err)
		ids[i] = s.ID()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for j := 0; j < 10; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				s, err := st.Get(id)
				if err != nil {
					t.Error(err)
					return
				}
				s.Do(st.Now(), press("1+"))
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		s, err := st.Get(id)
		require.NoError(t, err)
		state, err := s.Do(st.Now(), func(b *keycalc.Builder) error {
			b.Digit('0')
			b.Equals()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "19", state.Result, "session %s", id)
	}
}

func TestSweep(t *testing.T) {
	st, c := testStore(Options{})
	old, err := st.Create()
	require.NoError(t, err)
	c.Advance(20 * time.Minute)
	fresh, err := st.Create()
	require.NoError(t, err)
	c.Advance(15 * time.Minute)

	assert.Equal(t, 1, st.Sweep(30*time.Minute))
	_, err = st.Get(old.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(fresh.ID())
	assert.NoError(t, err)
	assert.Equal(t, 0, st.Sweep(30*time.Minute))
}

func TestSweepKeepsUsed(t *testing.T) {
	st, c := testStore(Options{})
	s, err := st.Create()
	require.NoError(t, err)
	c.Advance(25 * time.Minute)
	_, err = s.Do(st.Now(), press("1"))
	require.NoError(t, err)
	c.Advance(25 * time.Minute)
	assert.Equal(t, 0, st.Sweep(30*time.Minute))
}

func TestRunStops(t *testing.T) {
	st, c := testStore(Options{})
	_, err := st.Create()
	require.NoError(t, err)
	c.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, time.Millisecond, time.Minute)
		close(done)
	}()
	require.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
