package routines

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/gymroutine/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=cached_store_mocks_test.go -package=routines_test

// Store is implemented by Repo and CachedStore.
type Store interface {
	Get(ctx context.Context, userID string, day Day) (*Routine, error)
	Save(ctx context.Context, routine *Routine) (*Routine, error)
	UpdateSetRest(ctx context.Context, userID string, day Day, exIdx, setIdx, restSeconds int) error
	LogSet(ctx context.Context, userID string, day Day, exIdx, setIdx int, setLog SetLog) error
}

var (
	_ Store = (*Repo)(nil)
	_ Store = (*CachedStore)(nil)
)

const (
	megabyte                  = 1024 * 1024
	DefaultCacheSize          = 16 * megabyte
	DefaultCacheExpireSeconds = 10 * 60
)

// CachedStore keeps routines read through it in an in-memory cache. Every write through it
// drops the cached routine of that user and day.
type CachedStore struct {
	next          Store
	cache         *freecache.Cache
	expireSeconds int
}

func NewCachedStore(next Store, cacheSize, expireSeconds int) *CachedStore {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if expireSeconds <= 0 {
		expireSeconds = DefaultCacheExpireSeconds
	}
	return &CachedStore{
		next:          next,
		cache:         freecache.NewCache(cacheSize),
		expireSeconds: expireSeconds,
	}
}

func cacheKey(userID string, day Day) []byte {
	return []byte(fmt.Sprintf("routine::%s::%s", userID, day))
}

func (s *CachedStore) Get(ctx context.Context, userID string, day Day) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.routines.cached.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	key := cacheKey(userID, day)
	if routineBytes, err := s.cache.Get(key); err == nil {
		routine := &Routine{}
		if err = json.Unmarshal(routineBytes, routine); err == nil {
			span.SetAttributes(attribute.Bool("cache-hit", true))
			return routine, nil
		}
		log.Errorf("failed to unmarshal routine %s from cache: %s", key, err)
	}
	span.SetAttributes(attribute.Bool("cache-hit", false))

	routine, err := s.next.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	s.set(routine)
	return routine, nil
}

func (s *CachedStore) Save(ctx context.Context, routine *Routine) (*Routine, error) {
	saved, err := s.next.Save(ctx, routine)
	s.invalidate(routine.UserID, routine.Day)
	if err != nil {
		return nil, err
	}
	s.set(saved)
	return saved, nil
}

func (s *CachedStore) UpdateSetRest(ctx context.Context, userID string, day Day, exIdx, setIdx, restSeconds int) error {
	defer s.invalidate(userID, day)
	return s.next.UpdateSetRest(ctx, userID, day, exIdx, setIdx, restSeconds)
}

func (s *CachedStore) LogSet(ctx context.Context, userID string, day Day, exIdx, setIdx int, setLog SetLog) error {
	defer s.invalidate(userID, day)
	return s.next.LogSet(ctx, userID, day, exIdx, setIdx, setLog)
}

func (s *CachedStore) set(routine *Routine) {
	routineBytes, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal routine for cache: %s", err)
		return
	}
	if err := s.cache.Set(cacheKey(routine.UserID, routine.Day), routineBytes, s.expireSeconds); err != nil {
		log.Errorf("failed to cache routine of user %s for %s: %s", routine.UserID, routine.Day, err)
	}
}

func (s *CachedStore) invalidate(userID string, day Day) {
	s.cache.Del(cacheKey(userID, day))
}
