package subscribe

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/model"
	"github.com/21haoxingxiu/core/internal/repository"
	"github.com/21haoxingxiu/core/internal/store/memory"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Subscriber), args.Error(1)
}

func (m *repoMock) GetSubscriber(ctx context.Context, email string) (model.Subscriber, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Subscriber), args.Error(1)
}

func (m *repoMock) UpsertSubscriber(ctx context.Context, s model.Subscriber) (model.Subscriber, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(model.Subscriber), args.Error(1)
}

func (m *repoMock) DeleteSubscriber(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type emitted struct {
	mu     sync.Mutex
	events []event.Event
}

func (e *emitted) Emit(_ context.Context, ev event.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return nil
}

func newLeader(t *testing.T) (*Registry, *memory.Store) {
	t.Helper()
	store := memory.New(zap.NewNop())
	return newRegistry(store, nil, "https://api.example.com/", true, zap.NewNop()), store
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg, store := newLeader(t)

	require.NoError(t, reg.Subscribe(ctx, "a@x.io", 3))
	require.Equal(t, 1, reg.Len())

	stored, err := store.GetSubscriber(ctx, "a@x.io")
	require.NoError(t, err)
	require.Len(t, stored.CancelToken, 64)

	ok, err := reg.Unsubscribe(ctx, "a@x.io", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, reg.Len())

	ok, err = reg.Unsubscribe(ctx, "a@x.io", stored.CancelToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, reg.Len())

	_, err = store.GetSubscriber(ctx, "a@x.io")
	require.ErrorIs(t, err, domain.ErrSubscriberNotFound)

	ok, err = reg.Unsubscribe(ctx, "a@x.io", stored.CancelToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubscribeKeepsTokenOnUpdate(t *testing.T) {
	ctx := context.Background()
	reg, store := newLeader(t)

	require.NoError(t, reg.Subscribe(ctx, "a@x.io", domain.SubscribePostCreateBit))
	before, err := store.GetSubscriber(ctx, "a@x.io")
	require.NoError(t, err)

	require.NoError(t, reg.Subscribe(ctx, "a@x.io", domain.SubscribeAllBit))
	after, err := store.GetSubscriber(ctx, "a@x.io")
	require.NoError(t, err)

	require.Equal(t, before.CancelToken, after.CancelToken)
	require.Equal(t, domain.SubscribeAllBit, after.Subscribe)

	status, err := reg.Status(ctx, "a@x.io")
	require.NoError(t, err)
	require.Equal(t, domain.SubscribeAllBit, status)
}

func TestSubscribeRejectsInvalidBitmask(t *testing.T) {
	reg, _ := newLeader(t)

	require.ErrorIs(t, reg.Subscribe(context.Background(), "a@x.io", 0), domain.ErrInvalidSubscribeType)
	require.ErrorIs(t, reg.Subscribe(context.Background(), "a@x.io", 1<<6), domain.ErrInvalidSubscribeType)

	_, err := reg.TypesToBitmask([]string{"nope"})
	require.ErrorIs(t, err, domain.ErrInvalidSubscribeType)
}

func TestUnsubscribeLink(t *testing.T) {
	ctx := context.Background()
	reg, store := newLeader(t)

	link, err := reg.UnsubscribeLink(ctx, "missing@x.io")
	require.NoError(t, err)
	require.Empty(t, link)

	require.NoError(t, reg.Subscribe(ctx, "a+b@x.io", 1))
	stored, err := store.GetSubscriber(ctx, "a+b@x.io")
	require.NoError(t, err)

	link, err = reg.UnsubscribeLink(ctx, "a+b@x.io")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://api.example.com/subscribe/unsubscribe?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, "a+b@x.io", u.Query().Get("email"))
	require.Equal(t, stored.CancelToken, u.Query().Get("cancelToken"))
}

func TestInitLoadsMirror(t *testing.T) {
	repo := &repoMock{}
	repo.On("ListSubscribers", mock.Anything).Return([]model.Subscriber{
		{Email: "a@x.io", Subscribe: 1},
		{Email: "b@x.io", Subscribe: 2},
	}, nil).Once()
	reg := newRegistry(repo, nil, "", true, zap.NewNop())

	require.NoError(t, reg.Init(context.Background()))
	require.Equal(t, 2, reg.Len())
	require.ElementsMatch(t, []Entry{{"a@x.io", 1}, {"b@x.io", 2}}, reg.Snapshot())
	repo.AssertExpectations(t)
}

func TestInitSkippedOffLeader(t *testing.T) {
	repo := &repoMock{}
	reg := newRegistry(repo, nil, "", false, zap.NewNop())

	require.NoError(t, reg.Init(context.Background()))
	repo.AssertNotCalled(t, "ListSubscribers", mock.Anything)
}

func TestUnsubscribeStoreError(t *testing.T) {
	storeErr := errors.New("db down")
	repo := &repoMock{}
	repo.On("GetSubscriber", mock.Anything, "a@x.io").Return(model.Subscriber{}, storeErr).Once()
	reg := newRegistry(repo, nil, "", true, zap.NewNop())

	ok, err := reg.Unsubscribe(context.Background(), "a@x.io", "t")
	require.ErrorIs(t, err, storeErr)
	require.False(t, ok)
}

func TestFollowerAnnouncesChanges(t *testing.T) {
	ctx := context.Background()
	store := memory.New(zap.NewNop())
	events := &emitted{}
	follower := newRegistry(store, events, "", false, zap.NewNop())

	require.NoError(t, follower.Subscribe(ctx, "a@x.io", 1))
	require.Equal(t, 0, follower.Len())
	require.Len(t, events.events, 1)
	require.Equal(t, event.KindSubscriberChanged, events.events[0].Kind)

	leader := newRegistry(store, nil, "", true, zap.NewNop())
	leader.HandleChanged(ctx, events.events[0])
	require.Equal(t, []Entry{{"a@x.io", 1}}, leader.Snapshot())

	stored, err := store.GetSubscriber(ctx, "a@x.io")
	require.NoError(t, err)
	ok, err := follower.Unsubscribe(ctx, "a@x.io", stored.CancelToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, events.events, 2)

	leader.HandleChanged(ctx, events.events[1])
	require.Equal(t, 0, leader.Len())
}

func TestCancelTokenIsRandom(t *testing.T) {
	a := newCancelToken("a@x.io")
	b := newCancelToken("a@x.io")
	require.Len(t, a, 64)
	require.NotEqual(t, a, b)
	require.True(t, tokensEqual(a, a))
	require.False(t, tokensEqual(a, b))
}

// slowRepo widens the window between the store write and the mirror update.
type slowRepo struct {
	repository.SubscriberRepository
	delay time.Duration
}

func (s slowRepo) UpsertSubscriber(ctx context.Context, sub model.Subscriber) (model.Subscriber, error) {
	time.Sleep(s.delay)
	stored, err := s.SubscriberRepository.UpsertSubscriber(ctx, sub)
	time.Sleep(s.delay)
	return stored, err
}

func TestConcurrentSubscribeKeepsMirrorInStep(t *testing.T) {
	ctx := context.Background()
	store := memory.New(zap.NewNop())
	reg := newRegistry(slowRepo{SubscriberRepository: store, delay: time.Millisecond}, nil, "", true, zap.NewNop())

	for i := 0; i < 50; i++ {
		errs := make(chan error, 2)
		for _, bits := range []int{domain.SubscribePostCreateBit, domain.SubscribeNoteCreateBit} {
			go func(bits int) { errs <- reg.Subscribe(ctx, "a@x.io", bits) }(bits)
		}
		require.NoError(t, <-errs)
		require.NoError(t, <-errs)

		stored, err := store.GetSubscriber(ctx, "a@x.io")
		require.NoError(t, err)
		require.Equal(t, []Entry{{"a@x.io", stored.Subscribe}}, reg.Snapshot(), "round %d", i)
	}
}

func TestConcurrentFirstSubscribeKeepsOneToken(t *testing.T) {
	ctx := context.Background()
	store := memory.New(zap.NewNop())
	reg := newRegistry(slowRepo{SubscriberRepository: store, delay: time.Millisecond}, nil, "", true, zap.NewNop())

	errs := make(chan error, 8)
	for i := 0; i < cap(errs); i++ {
		go func() { errs <- reg.Subscribe(ctx, "a@x.io", domain.SubscribeAllBit) }()
	}
	for i := 0; i < cap(errs); i++ {
		require.NoError(t, <-errs)
	}

	stored, err := store.GetSubscriber(ctx, "a@x.io")
	require.NoError(t, err)
	link, err := reg.UnsubscribeLink(ctx, "a@x.io")
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, stored.CancelToken, u.Query().Get("cancelToken"))

	ok, err := reg.Unsubscribe(ctx, "a@x.io", stored.CancelToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, reg.Len())
}
