package roundservice

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// ------------------------
// Fake Repo
// ------------------------

type FakeRepo struct {
	trace []string

	InsertRoundFunc          func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	InsertRoundsFunc         func(ctx context.Context, db bun.IDB, rounds []*rounddb.Round) error
	ListRoundsFunc           func(ctx context.Context, db bun.IDB, ownerID string) ([]*rounddb.Round, error)
	ListDifferentialsFunc    func(ctx context.Context, db bun.IDB, ownerID string) ([]float64, error)
	DeleteRoundsForOwnerFunc func(ctx context.Context, db bun.IDB, ownerID string) (int, error)
}

var _ rounddb.Repository = (*FakeRepo)(nil)

// NewFakeRepo creates a lightweight fake repo for unit tests
func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		trace: []string{},
	}
}

// record appends a trace entry
func (f *FakeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepo) InsertRound(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("InsertRound")
	if f.InsertRoundFunc != nil {
		return f.InsertRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRepo) InsertRounds(ctx context.Context, db bun.IDB, rounds []*rounddb.Round) error {
	f.record("InsertRounds")
	if f.InsertRoundsFunc != nil {
		return f.InsertRoundsFunc(ctx, db, rounds)
	}
	return nil
}

func (f *FakeRepo) ListRounds(ctx context.Context, db bun.IDB, ownerID string) ([]*rounddb.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, db, ownerID)
	}
	return nil, nil
}

func (f *FakeRepo) ListDifferentials(ctx context.Context, db bun.IDB, ownerID string) ([]float64, error) {
	f.record("ListDifferentials")
	if f.ListDifferentialsFunc != nil {
		return f.ListDifferentialsFunc(ctx, db, ownerID)
	}
	return nil, nil
}

func (f *FakeRepo) DeleteRoundsForOwner(ctx context.Context, db bun.IDB, ownerID string) (int, error) {
	f.record("DeleteRoundsForOwner")
	if f.DeleteRoundsForOwnerFunc != nil {
		return f.DeleteRoundsForOwnerFunc(ctx, db, ownerID)
	}
	return 0, nil
}

// ------------------------
// Fake Cache
// ------------------------

type FakeCache struct {
	entries     map[string]rounddomain.IndexSummary
	generations map[string]uint64
	invalidated []string
}

func NewFakeCache() *FakeCache {
	return &FakeCache{
		entries:     map[string]rounddomain.IndexSummary{},
		generations: map[string]uint64{},
	}
}

func (c *FakeCache) Get(ownerID string) (rounddomain.IndexSummary, bool) {
	s, ok := c.entries[ownerID]
	return s, ok
}

func (c *FakeCache) Generation(ownerID string) uint64 {
	return c.generations[ownerID]
}

func (c *FakeCache) Set(ownerID string, summary rounddomain.IndexSummary, generation uint64) bool {
	if c.generations[ownerID] != generation {
		return false
	}
	c.entries[ownerID] = summary
	return true
}

func (c *FakeCache) Invalidate(ownerID string) {
	c.invalidated = append(c.invalidated, ownerID)
	c.generations[ownerID]++
	delete(c.entries, ownerID)
}

// ------------------------
// Fake Event Bus
// ------------------------

type publishedEvent struct {
	Topic   string
	Payload []byte
}

type FakeEventBus struct {
	mu         sync.Mutex
	published  []publishedEvent
	PublishErr error
}

func (b *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	if b.PublishErr != nil {
		return b.PublishErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range messages {
		b.published = append(b.published, publishedEvent{Topic: topic, Payload: m.Payload})
	}
	return nil
}

func (b *FakeEventBus) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return make(chan *message.Message), nil
}

func (b *FakeEventBus) Close() error { return nil }

func (b *FakeEventBus) Topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.Topic)
	}
	return out
}

// Decode unmarshals the i-th published payload into v.
func (b *FakeEventBus) Decode(i int, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return json.Unmarshal(b.published[i].Payload, v)
}

// ---------------------- Stub Parser & Factory ----------------------

type StubParser struct {
	History *parsers.ParsedHistory
	Err     error
}

func (p *StubParser) Parse(_ []byte) (*parsers.ParsedHistory, error) {
	return p.History, p.Err
}

type StubFactory struct {
	Parser parsers.Parser
	Err    error
}

func (f *StubFactory) GetParser(string) (parsers.Parser, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Parser, nil
}

// ---------------------- Helpers ----------------------

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	repo    *FakeRepo
	cache   *FakeCache
	bus     *FakeEventBus
	factory parsers.ParserFactory
}

func newTestService(deps testDeps) *RoundService {
	if deps.repo == nil {
		deps.repo = NewFakeRepo()
	}
	if deps.cache == nil {
		deps.cache = NewFakeCache()
	}
	if deps.bus == nil {
		deps.bus = &FakeEventBus{}
	}
	if deps.factory == nil {
		deps.factory = parsers.NewFactory()
	}
	return NewRoundService(
		deps.repo,
		deps.bus,
		deps.cache,
		deps.factory,
		roundutil.NewAnchorClock(testNow),
		observability.NoOpLogger,
		&observability.NoOpRoundMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func storedRound(t time.Time, date string, diff float64) *rounddb.Round {
	played, _ := time.Parse(rounddomain.DateLayout, date)
	return &rounddb.Round{
		OwnerID:      "owner-1",
		PlayedOn:     played,
		Course:       "Test Golf Club",
		Rating:       72,
		Slope:        113,
		Gross:        72 + int(diff),
		Differential: diff,
		CreatedAt:    t,
	}
}
