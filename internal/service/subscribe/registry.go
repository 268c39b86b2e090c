package subscribe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/domain"
	"github.com/21haoxingxiu/core/internal/event"
	"github.com/21haoxingxiu/core/internal/model"
	"github.com/21haoxingxiu/core/internal/repository"
)

type Emitter interface {
	Emit(ctx context.Context, e event.Event) error
}

// Entry is one subscriber as seen by the in-memory mirror.
type Entry struct {
	Email     string
	Subscribe int
}

const lockStripes = 64

type changedPayload struct {
	Email string `json:"email"`
}

// Registry keeps subscribers in the store and, on the leader, a mirror of
// email to bitmask used by the newsletter fan-out. Other workers write to the
// store and announce the change so the leader can refresh its mirror.
//
// Mutations of one email are serialized, so the mirror entry for an email is
// always written from the store result of the latest mutation.
type Registry struct {
	repo          repository.SubscriberRepository
	events        Emitter
	serverURL     string
	authoritative bool
	mirror        *xsync.MapOf[string, int]
	locks         [lockStripes]sync.Mutex
	log           *zap.Logger
}

func NewRegistry(cfg *config.Config, repo repository.SubscriberRepository, events *event.Bus, logger *zap.Logger) *Registry {
	return newRegistry(repo, events, cfg.ServerURL, cfg.IsLeader(), logger)
}

func newRegistry(repo repository.SubscriberRepository, events Emitter, serverURL string, authoritative bool, logger *zap.Logger) *Registry {
	return &Registry{
		repo:          repo,
		events:        events,
		serverURL:     strings.TrimRight(serverURL, "/"),
		authoritative: authoritative,
		mirror:        xsync.NewMapOf[string, int](),
		log:           logger,
	}
}

func (r *Registry) Authoritative() bool {
	return r.authoritative
}

// Init loads every subscriber into the mirror. It is a no-op off the leader.
func (r *Registry) Init(ctx context.Context) error {
	if !r.authoritative {
		return nil
	}
	subscribers, err := r.repo.ListSubscribers(ctx)
	if err != nil {
		r.log.Error("load subscribers failed", zap.Error(err))
		return fmt.Errorf("load subscribers: %w", err)
	}
	r.mirror.Clear()
	for _, s := range subscribers {
		r.mirror.Store(s.Email, s.Subscribe)
	}
	r.log.Info("subscriber registry loaded", zap.Int("subscribers", len(subscribers)))
	return nil
}

// TypesToBitmask converts subscription type names to a bitmask.
func (r *Registry) TypesToBitmask(types []string) (int, error) {
	return domain.SubscribeTypesToBitmask(types)
}

// Subscribe creates the subscriber with a fresh cancel token, or replaces the
// bitmask of an existing one. The token of an existing subscriber is kept.
func (r *Registry) Subscribe(ctx context.Context, email string, subscribe int) error {
	if !domain.IsValidSubscribeBitmask(subscribe) {
		return domain.ErrInvalidSubscribeType
	}

	mu := r.lockFor(email)
	mu.Lock()
	defer mu.Unlock()

	stored, err := r.repo.UpsertSubscriber(ctx, model.Subscriber{
		Email:       email,
		Subscribe:   subscribe,
		CancelToken: newCancelToken(email),
	})
	if err != nil {
		r.log.Error("upsert subscriber failed", zap.String("email", email), zap.Error(err))
		return err
	}

	r.changed(ctx, stored.Email, stored.Subscribe, true)
	return nil
}

// Unsubscribe deletes the subscriber when token matches its cancel token. It
// reports false, without error, for unknown emails and mismatched tokens.
func (r *Registry) Unsubscribe(ctx context.Context, email, token string) (bool, error) {
	mu := r.lockFor(email)
	mu.Lock()
	defer mu.Unlock()

	subscriber, err := r.repo.GetSubscriber(ctx, email)
	if errors.Is(err, domain.ErrSubscriberNotFound) {
		return false, nil
	}
	if err != nil {
		r.log.Error("get subscriber failed", zap.String("email", email), zap.Error(err))
		return false, err
	}
	if token == "" || !tokensEqual(subscriber.CancelToken, token) {
		return false, nil
	}
	if err := r.repo.DeleteSubscriber(ctx, email); err != nil {
		if errors.Is(err, domain.ErrSubscriberNotFound) {
			return false, nil
		}
		r.log.Error("delete subscriber failed", zap.String("email", email), zap.Error(err))
		return false, err
	}

	r.changed(ctx, email, 0, false)
	return true, nil
}

// UnsubscribeLink returns the one-click unsubscribe URL for email, or "" when
// the email is not subscribed.
func (r *Registry) UnsubscribeLink(ctx context.Context, email string) (string, error) {
	subscriber, err := r.repo.GetSubscriber(ctx, email)
	if errors.Is(err, domain.ErrSubscriberNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	query := url.Values{}
	query.Set("email", subscriber.Email)
	query.Set("cancelToken", subscriber.CancelToken)
	return r.serverURL + "/subscribe/unsubscribe?" + query.Encode(), nil
}

// Status returns the stored bitmask for email.
func (r *Registry) Status(ctx context.Context, email string) (int, error) {
	subscriber, err := r.repo.GetSubscriber(ctx, email)
	if err != nil {
		return 0, err
	}
	return subscriber.Subscribe, nil
}

// Refresh re-reads one subscriber into the mirror.
func (r *Registry) Refresh(ctx context.Context, email string) error {
	mu := r.lockFor(email)
	mu.Lock()
	defer mu.Unlock()

	subscriber, err := r.repo.GetSubscriber(ctx, email)
	if errors.Is(err, domain.ErrSubscriberNotFound) {
		r.mirror.Delete(email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh subscriber: %w", err)
	}
	r.mirror.Store(subscriber.Email, subscriber.Subscribe)
	return nil
}

// HandleChanged is the leader's listener for subscriber.changed events.
func (r *Registry) HandleChanged(ctx context.Context, e event.Event) {
	var p changedPayload
	if err := e.Decode(&p); err != nil || p.Email == "" {
		r.log.Warn("subscriber change event malformed", zap.Error(err))
		return
	}
	if err := r.Refresh(ctx, p.Email); err != nil {
		r.log.Error("subscriber refresh failed", zap.String("email", p.Email), zap.Error(err))
	}
}

// Each calls fn for every mirrored subscriber until fn returns false.
func (r *Registry) Each(fn func(email string, subscribe int) bool) {
	r.mirror.Range(fn)
}

func (r *Registry) Snapshot() []Entry {
	entries := make([]Entry, 0, r.mirror.Size())
	r.mirror.Range(func(email string, subscribe int) bool {
		entries = append(entries, Entry{Email: email, Subscribe: subscribe})
		return true
	})
	return entries
}

func (r *Registry) Len() int {
	return r.mirror.Size()
}

func (r *Registry) lockFor(email string) *sync.Mutex {
	return &r.locks[xxhash.Sum64String(email)%lockStripes]
}

func (r *Registry) changed(ctx context.Context, email string, subscribe int, present bool) {
	if r.authoritative {
		if present {
			r.mirror.Store(email, subscribe)
		} else {
			r.mirror.Delete(email)
		}
		return
	}
	if r.events == nil {
		return
	}
	e, err := event.New(event.KindSubscriberChanged, event.ScopeSystem, changedPayload{Email: email})
	if err != nil {
		r.log.Error("encode subscriber change failed", zap.Error(err))
		return
	}
	if err := r.events.Emit(ctx, e); err != nil {
		r.log.Warn("announce subscriber change failed", zap.String("email", email), zap.Error(err))
	}
}
