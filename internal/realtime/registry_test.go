package realtime

import (
	"sync"
	"testing"

	rt "kynix-service/internal/domain/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	mu          sync.Mutex
	frames      []*rt.Frame
	closed      bool
	closeCode   int
	closeReason string
}

func (f *fakeChannel) Send(frame *rt.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.frames = append(f.frames, frame)
}

func (f *fakeChannel) Close(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.closeCode = code
	f.closeReason = reason
}

func (f *fakeChannel) snapshot() []*rt.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*rt.Frame(nil), f.frames...)
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestRegister_SendsConnectedFrame(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	ch := &fakeChannel{}

	r.Register(1, ch)

	frames := ch.snapshot()
	require.Len(t, frames, 1)
	assert.Equal(t, rt.FrameTypeConnected, frames[0].Type)
	assert.Equal(t, "Connected to notifications", frames[0].Message)
	assert.Same(t, ch, r.Lookup(1).(*fakeChannel))
}

func TestRegister_ReplacesPriorChannel(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	first := &fakeChannel{}
	second := &fakeChannel{}

	r.Register(1, first)
	r.Register(1, second)

	assert.True(t, first.isClosed(), "superseded channel must be closed")
	assert.False(t, second.isClosed())
	assert.Equal(t, 1, r.Count())
	assert.Same(t, second, r.Lookup(1).(*fakeChannel))
}

func TestUnregister_OnlyRemovesCurrentChannel(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	old := &fakeChannel{}
	replacement := &fakeChannel{}

	r.Register(1, old)
	r.Register(1, replacement)

	// Late close notification from the replaced channel must not evict the
	// newer registration.
	r.Unregister(1, old)
	assert.Same(t, replacement, r.Lookup(1).(*fakeChannel))

	r.Unregister(1, replacement)
	assert.Nil(t, r.Lookup(1))
}

func TestDispatch_UnregisteredUserIsSilentNoop(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	// Must not panic, error or leave any trace
	d.Dispatch(99, map[string]string{"title": "hello"})
	assert.Equal(t, 0, r.Count())
}

func TestDispatch_DeliversToExactlyOneUser(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	target := &fakeChannel{}
	bystander := &fakeChannel{}
	r.Register(1, target)
	r.Register(2, bystander)

	payload := map[string]string{"title": "new follower"}
	d.Dispatch(1, payload)

	frames := target.snapshot()
	require.Len(t, frames, 2, "connected frame plus one notification")
	assert.Equal(t, rt.FrameTypeNotification, frames[1].Type)
	assert.Equal(t, payload, frames[1].Data)

	for _, f := range bystander.snapshot() {
		assert.NotEqual(t, rt.FrameTypeNotification, f.Type)
	}
}

func TestDispatch_AfterUnregisterIsDropped(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	ch := &fakeChannel{}
	r.Register(1, ch)
	r.Unregister(1, ch)

	d.Dispatch(1, "late")

	for _, f := range ch.snapshot() {
		assert.NotEqual(t, rt.FrameTypeNotification, f.Type)
	}
}

func TestRegistry_ConcurrentRegisterDispatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		userID := int64(i % 5)
		go func() {
			defer wg.Done()
			r.Register(userID, &fakeChannel{})
		}()
		go func() {
			defer wg.Done()
			d.Dispatch(userID, "ping")
		}()
	}
	wg.Wait()

	// One entry per user at most, regardless of interleaving
	assert.LessOrEqual(t, r.Count(), 5)
}

func TestConnections_ReportsConnectedAt(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	r.Register(2, &fakeChannel{})
	r.Register(1, &fakeChannel{})

	conns := r.Connections()
	require.Len(t, conns, 2)
	assert.Equal(t, int64(1), conns[0].UserID)
	assert.Equal(t, int64(2), conns[1].UserID)
	for _, ci := range conns {
		assert.False(t, ci.ConnectedAt.IsZero())
	}

	// Re-registration restamps the connection time.
	first := conns[0].ConnectedAt
	r.Register(1, &fakeChannel{})
	conns = r.Connections()
	require.Len(t, conns, 2)
	assert.False(t, conns[0].ConnectedAt.Before(first))
}

func TestShutdown_ClosesAllChannels(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	a := &fakeChannel{}
	b := &fakeChannel{}
	r.Register(1, a)
	r.Register(2, b)

	r.Shutdown()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Equal(t, 0, r.Count())
}
