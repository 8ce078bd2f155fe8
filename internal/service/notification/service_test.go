package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domnotif "kynix-service/internal/domain/notification"
	rt "kynix-service/internal/domain/realtime"
	"kynix-service/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	created []*domnotif.Notification
	readIDs []int64

	createErr error
}

func (s *fakeStore) Create(_ context.Context, n *domnotif.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = time.Now()
	s.created = append(s.created, n)
	return nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID int64, _ *domnotif.ListFilters) ([]domnotif.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domnotif.Notification
	for _, n := range s.created {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) UnreadCount(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) MarkAsRead(_ context.Context, id, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readIDs = append(s.readIDs, id)
	return nil
}

func (s *fakeStore) MarkAllAsRead(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.created {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

var _ Store = (*fakeStore)(nil)

type recordingChannel struct {
	mu     sync.Mutex
	frames []*rt.Frame
}

func (c *recordingChannel) Send(frame *rt.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
}

func (c *recordingChannel) Close(int, string) {}

func (c *recordingChannel) notifications() []*rt.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*rt.Frame
	for _, f := range c.frames {
		if f.Type == rt.FrameTypeNotification {
			out = append(out, f)
		}
	}
	return out
}

func testService() (*NotificationService, *fakeStore, *realtime.Registry) {
	logger := zap.NewNop()
	store := &fakeStore{}
	registry := realtime.NewRegistry(logger)
	return NewNotificationService(store, realtime.NewDispatcher(registry, logger), logger), store, registry
}

func TestCreateAndPush_PersistsThenDispatches(t *testing.T) {
	t.Parallel()

	svc, store, registry := testService()
	ch := &recordingChannel{}
	registry.Register(42, ch)

	n, err := svc.CreateAndPush(context.Background(), &domnotif.CreateNotificationRequest{
		UserID:  42,
		Type:    domnotif.TypeFollow,
		Title:   "New follower",
		Message: "someone followed you",
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)

	require.Len(t, store.created, 1)

	pushed := ch.notifications()
	require.Len(t, pushed, 1)
	got, ok := pushed[0].Data.(*domnotif.Notification)
	require.True(t, ok)
	assert.Equal(t, n.ID, got.ID, "pushed payload must be the persisted record")
}

func TestCreateAndPush_OfflineUserStillPersisted(t *testing.T) {
	t.Parallel()

	svc, store, _ := testService()

	n, err := svc.CreateAndPush(context.Background(), &domnotif.CreateNotificationRequest{
		UserID:  7,
		Title:   "hello",
		Message: "offline delivery",
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Len(t, store.created, 1)
}

func TestCreateAndPush_DefaultsToSystemType(t *testing.T) {
	t.Parallel()

	svc, _, _ := testService()

	n, err := svc.CreateAndPush(context.Background(), &domnotif.CreateNotificationRequest{
		UserID:  7,
		Title:   "maintenance",
		Message: "scheduled downtime",
	})
	require.NoError(t, err)
	assert.Equal(t, domnotif.TypeSystem, n.Type)
}

func TestCreateAndPush_StoreFailureSkipsDispatch(t *testing.T) {
	t.Parallel()

	svc, store, registry := testService()
	store.createErr = errors.New("connection refused")

	ch := &recordingChannel{}
	registry.Register(42, ch)

	_, err := svc.CreateAndPush(context.Background(), &domnotif.CreateNotificationRequest{
		UserID:  42,
		Title:   "never lands",
		Message: "store is down",
	})
	require.Error(t, err)
	assert.Empty(t, ch.notifications())
}

func TestList_NormalizesPagination(t *testing.T) {
	t.Parallel()

	svc, _, _ := testService()

	resp, err := svc.List(context.Background(), 7, &domnotif.ListFilters{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
}

func TestList_CountsUnread(t *testing.T) {
	t.Parallel()

	svc, _, _ := testService()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateAndPush(context.Background(), &domnotif.CreateNotificationRequest{
			UserID:  9,
			Title:   "t",
			Message: "m",
		})
		require.NoError(t, err)
	}
	require.NoError(t, svc.MarkAllAsRead(context.Background(), 9))

	_, err := svc.CreateAndPush(context.Background(), &domnotif.CreateNotificationRequest{
		UserID:  9,
		Title:   "t",
		Message: "m",
	})
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), 9, &domnotif.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Total)
	assert.Equal(t, int64(1), resp.UnreadCount)
}
