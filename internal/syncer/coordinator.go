// Package syncer orchestrates the dual-write persistence of the ledger:
// load-on-entry across remote mirror, local cache and seed defaults, and
// debounced save-on-change. The local cache write is the durability
// guarantee of record; every mirror operation is best-effort and a later
// save is the implicit retry.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/fingemini/internal/cache"
	"github.com/dvloznov/fingemini/internal/domain"
	"github.com/dvloznov/fingemini/internal/mirror"
)

// DebounceWindow is the delay after the last mutation before a save fires.
// Each new ScheduleSave call resets it.
const DebounceWindow = time.Second

// ErrCorruptCache is returned by Load when the cached payload exists but
// fails to parse. The entry is a defect state, not a normal miss, so it is
// surfaced to the caller instead of silently replaced by seed data.
var ErrCorruptCache = errors.New("syncer: cached payload is malformed")

// Session identifies the active user and mode. It is passed explicitly into
// every coordinator operation so multiple sessions can run in isolation.
type Session struct {
	User domain.User
	Demo bool
}

// CacheKey is the storage namespace for this session: the fixed demo key in
// demo mode, a per-identity key otherwise.
func (s Session) CacheKey() string {
	if s.Demo {
		return cache.DemoKey()
	}
	return cache.UserKey(s.User.ID)
}

// payload is the local cache entry shape. Categories are not persisted; they
// hydrate from the default set on load.
type payload struct {
	Accounts     []domain.Account     `json:"accounts"`
	Transactions []domain.Transaction `json:"transactions"`
}

type pendingSave struct {
	snapshot domain.Snapshot
	session  Session
}

// Coordinator owns the load/save orchestration for one running process.
// A nil mirror means the remote side is unconfigured and only the local
// cache is used.
type Coordinator struct {
	cache    cache.Store
	mirror   mirror.Mirror
	log      zerolog.Logger
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *pendingSave

	remote sync.WaitGroup
}

// New creates a coordinator over the given backends.
func New(store cache.Store, m mirror.Mirror, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		cache:    store,
		mirror:   m,
		log:      log,
		debounce: DebounceWindow,
	}
}

// SetDebounce overrides the save window. Call before the first ScheduleSave;
// an already armed timer keeps its original delay.
func (c *Coordinator) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debounce = d
}

// Load resolves the snapshot to hydrate the ledger with, first hit wins:
//
//  1. Pro mode with a configured mirror: keyed document read. Any failure is
//     logged and falls through - the remote is authoritative only when
//     reachable.
//  2. Local cache entry for the session's namespace. Malformed JSON is a
//     hard failure (ErrCorruptCache).
//  3. Demo mode with no cache entry: the fixed seed dataset.
//  4. Otherwise: empty collections.
//
// The remote attempt is awaited to completion before the cache is consulted,
// trading latency for freshness.
func (c *Coordinator) Load(ctx context.Context, session Session) (domain.Snapshot, error) {
	if !session.Demo && c.mirror != nil {
		doc, err := c.mirror.Load(ctx, session.User.ID)
		switch {
		case err == nil:
			c.log.Info().Str("user_id", session.User.ID).Msg("Loaded ledger from remote mirror")
			return domain.Snapshot{
				Accounts:     doc.Accounts,
				Transactions: doc.Transactions,
				Categories:   domain.DefaultCategories(),
			}, nil
		case errors.Is(err, mirror.ErrNotFound):
			c.log.Debug().Str("user_id", session.User.ID).Msg("No remote document, falling back to cache")
		default:
			c.log.Error().Err(err).Str("user_id", session.User.ID).Msg("Remote mirror load failed, falling back to cache")
		}
	}

	key := session.CacheKey()
	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var p payload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domain.Snapshot{}, fmt.Errorf("Load: parsing cache entry %q: %w: %w", key, ErrCorruptCache, err)
		}
		snap := domain.EmptySnapshot()
		if p.Accounts != nil {
			snap.Accounts = p.Accounts
		}
		if p.Transactions != nil {
			snap.Transactions = p.Transactions
		}
		return snap, nil
	case errors.Is(err, cache.ErrNotFound):
		// Fall through to seed resolution.
	default:
		return domain.Snapshot{}, fmt.Errorf("Load: reading cache entry %q: %w", key, err)
	}

	if session.Demo {
		c.log.Info().Msg("No cached demo data, seeding sample dataset")
		return domain.DemoSnapshot(), nil
	}
	return domain.EmptySnapshot(), nil
}

// ScheduleSave arms (or re-arms) the debounced dual-write with the given
// snapshot. Only the most recent snapshot in the window is persisted; a call
// superseded before the window elapses performs no write at all.
func (c *Coordinator) ScheduleSave(snapshot domain.Snapshot, session Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = &pendingSave{snapshot: snapshot, session: session}
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

// Flush persists any pending save immediately, without waiting for the
// debounce window. Used at shutdown.
func (c *Coordinator) Flush() {
	c.fire()
}

// fire takes the pending save, writes the local cache synchronously and
// dispatches the remote upsert without the caller awaiting it.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	p := c.pending
	c.pending = nil
	c.mu.Unlock()

	if p == nil {
		return
	}
	c.save(p.snapshot, p.session)
}

func (c *Coordinator) save(snapshot domain.Snapshot, session Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Empty collections persist as arrays, never JSON null; the read side
	// decodes against array-shaped fields.
	accounts := snapshot.Accounts
	if accounts == nil {
		accounts = []domain.Account{}
	}
	transactions := snapshot.Transactions
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	key := session.CacheKey()
	raw, err := json.Marshal(payload{
		Accounts:     accounts,
		Transactions: transactions,
	})
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("Marshaling ledger payload failed")
		return
	}
	if err := c.cache.Put(ctx, key, raw); err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("Local cache write failed")
		return
	}
	c.log.Debug().Str("key", key).Int("bytes", len(raw)).Msg("Ledger persisted to local cache")

	if session.Demo || c.mirror == nil {
		return
	}

	doc := &mirror.Document{
		Accounts:     accounts,
		Transactions: transactions,
		LastUpdated:  time.Now().UTC().Format(time.RFC3339),
	}
	c.remote.Add(1)
	go func() {
		defer c.remote.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.mirror.Save(ctx, session.User.ID, doc); err != nil {
			// Best effort: no rollback, no retry. The next debounced save
			// carries the data again.
			c.log.Error().Err(err).Str("user_id", session.User.ID).Msg("Remote mirror sync failed")
			return
		}
		c.log.Debug().Str("user_id", session.User.ID).Msg("Ledger mirrored remotely")
	}()
}

// Logout clears the demo namespace's cache entry and drops any pending save
// timer. A user's own namespace is left untouched so a returning Pro user
// reloads their last snapshot even when the mirror is unreachable.
func (c *Coordinator) Logout(ctx context.Context, session Session) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
	c.mu.Unlock()

	if err := c.cache.Delete(ctx, cache.DemoKey()); err != nil {
		return fmt.Errorf("Logout: clearing demo cache entry: %w", err)
	}
	return nil
}

// Close flushes any pending save and waits for in-flight remote writes to
// finish, up to the context deadline.
func (c *Coordinator) Close(ctx context.Context) error {
	c.Flush()

	done := make(chan struct{})
	go func() {
		c.remote.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
