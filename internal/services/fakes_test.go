package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/data/repos/sqlrepo"
	"github.com/yungbote/pukpuk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

var errBoom = errors.New("boom")

type fixture struct {
	log      *logger.Logger
	demands  *spyDemandRepo
	metadata repos.MetadataRepo
	cache    *fakeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	return &fixture{
		log:      log,
		demands:  &spyDemandRepo{DemandRepo: sqlrepo.NewDemandRepo(db, log)},
		metadata: sqlrepo.NewMetadataRepo(db, log),
		cache:    newFakeCache(),
	}
}

func (f *fixture) seed(t *testing.T, records ...*types.Record) {
	t.Helper()
	if err := f.demands.DemandRepo.Create(context.Background(), testutil.Sequenced(records...)); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// spyDemandRepo counts bulk calls and can be told to fail them.
type spyDemandRepo struct {
	repos.DemandRepo

	mu             sync.Mutex
	aggregateCalls int
	deleteAllCalls int
	failAggregate  bool
	failCount      bool
	failDeleteAll  bool

	// When set, AggregateProducts announces itself on aggregateEntered and
	// blocks until aggregateGate closes or its context ends.
	aggregateGate    chan struct{}
	aggregateEntered chan struct{}
}

func (s *spyDemandRepo) AggregateProducts(ctx context.Context, userID string) ([]*types.ProductAggregate, error) {
	s.mu.Lock()
	s.aggregateCalls++
	fail := s.failAggregate
	gate, entered := s.aggregateGate, s.aggregateEntered
	s.mu.Unlock()
	if fail {
		return nil, errBoom
	}
	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.DemandRepo.AggregateProducts(ctx, userID)
}

func (s *spyDemandRepo) Count(ctx context.Context, scope repos.Scope) (int64, error) {
	if s.failCount {
		return 0, errBoom
	}
	return s.DemandRepo.Count(ctx, scope)
}

func (s *spyDemandRepo) DeleteAll(ctx context.Context, scope repos.Scope) (int64, error) {
	s.mu.Lock()
	s.deleteAllCalls++
	s.mu.Unlock()
	if s.failDeleteAll {
		return 0, errBoom
	}
	return s.DemandRepo.DeleteAll(ctx, scope)
}

type fakeCache struct {
	mu            sync.Mutex
	entries       map[string][]types.Product
	hits          int
	invalidated   []string
	invalidateAll int
	failGet       bool
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]types.Product{}} }

func (c *fakeCache) Get(_ context.Context, userID string) ([]types.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errBoom
	}
	p, ok := c.entries[userID]
	if ok {
		c.hits++
	}
	return p, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, products []types.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = products
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func (c *fakeCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]types.Product{}
	c.invalidateAll++
	return nil
}

func (c *fakeCache) Close() error { return nil }
