// Package autosync reconciles local ledgers with the remote blob store.
//
// The reconciler listens for ledger change events and pushes the full
// ledger document to the remote, debounced per owner so that bursts of
// edits collapse into a single upload. Sync is strictly best-effort: the
// ledger store stays authoritative and usable while the remote is down.
package autosync

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/remote"
	"github.com/house-help/backend/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is the time without further changes after which a
// changed ledger is pushed.
const DefaultDebounce = 1000 * time.Millisecond

var (
	pushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "house_help_sync_pushes_total",
		Help: "Number of ledger uploads to the remote blob store",
	}, []string{"result"})

	bootstraps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "house_help_sync_bootstraps_total",
		Help: "Number of sync bootstraps, by outcome",
	}, []string{"result"})
)

// State describes where an owner's ledger stands relative to the remote.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateSyncing State = "syncing"
	StateError   State = "error"
)

// Status is the sync status of one owner.
type Status struct {
	State        State      `json:"state" example:"idle"`
	LastSyncedAt *time.Time `json:"lastSyncedAt" example:"2024-03-07T19:02:15.000000Z"`
}

// Reconciler debounces and uploads ledger changes, one schedule per owner.
type Reconciler struct {
	store    *store.Store
	remote   remote.BlobStore
	debounce time.Duration

	mu           sync.Mutex
	timers       map[string]*time.Timer
	inflight     map[string]bool
	pending      map[string]bool
	lastPayload  map[string][]byte
	lastSynced   map[string]time.Time
	lastErr      map[string]error
	bootstrapped map[string]bool
}

// New returns a reconciler pushing to the given remote. A nil remote
// disables sync entirely: Bootstrap and Run become no-ops and the status
// stays idle. A non-positive debounce falls back to DefaultDebounce.
func New(s *store.Store, r remote.BlobStore, debounce time.Duration) *Reconciler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Reconciler{
		store:        s,
		remote:       r,
		debounce:     debounce,
		timers:       map[string]*time.Timer{},
		inflight:     map[string]bool{},
		pending:      map[string]bool{},
		lastPayload:  map[string][]byte{},
		lastSynced:   map[string]time.Time{},
		lastErr:      map[string]error{},
		bootstrapped: map[string]bool{},
	}
}

// Run consumes change events until the context is canceled. It is meant to
// be started once, as a goroutine, next to the HTTP server.
func (r *Reconciler) Run(ctx context.Context) {
	if r.remote == nil {
		return
	}

	changes := r.store.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case change := <-changes:
			r.schedule(ctx, change.OwnerKey)
		}
	}
}

// schedule arms (or re-arms) the debounce timer of the owner. Every further
// change within the debounce window starts the wait over.
func (r *Reconciler) schedule(ctx context.Context, ownerKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.timers[ownerKey]; ok {
		timer.Reset(r.debounce)
		return
	}

	r.timers[ownerKey] = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		delete(r.timers, ownerKey)
		r.mu.Unlock()

		r.flush(ctx, ownerKey)
	})
}

// flush uploads the current ledger of the owner.
//
// At most one upload per owner is in flight. A change arriving while an
// upload runs does not start a second one, it marks the owner dirty and a
// new schedule starts once the upload finished.
func (r *Reconciler) flush(ctx context.Context, ownerKey string) {
	r.mu.Lock()
	if r.inflight[ownerKey] {
		r.pending[ownerKey] = true
		r.mu.Unlock()
		return
	}
	r.inflight[ownerKey] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inflight[ownerKey] = false
		rearm := r.pending[ownerKey]
		delete(r.pending, ownerKey)
		r.mu.Unlock()

		if rearm {
			r.schedule(ctx, ownerKey)
		}
	}()

	l, err := r.store.Load(ownerKey)
	if err != nil {
		r.fail(ownerKey, err)
		return
	}

	payload := l.Encode()

	r.mu.Lock()
	unchanged := bytes.Equal(payload, r.lastPayload[ownerKey])
	r.mu.Unlock()

	if unchanged {
		pushes.WithLabelValues("skipped").Inc()
		return
	}

	syncedAt, err := r.remote.Put(ctx, ownerKey, payload)
	if err != nil {
		pushes.WithLabelValues("error").Inc()
		r.fail(ownerKey, err)
		return
	}

	pushes.WithLabelValues("success").Inc()

	r.mu.Lock()
	r.lastPayload[ownerKey] = payload
	r.lastSynced[ownerKey] = syncedAt
	delete(r.lastErr, ownerKey)
	r.mu.Unlock()

	log.Debug().Str("owner", ownerKey).Int("bytes", len(payload)).Msg("pushed ledger to remote")
}

func (r *Reconciler) fail(ownerKey string, err error) {
	r.mu.Lock()
	r.lastErr[ownerKey] = err
	r.mu.Unlock()

	log.Warn().Str("owner", ownerKey).Err(err).Msg("ledger sync failed, keeping local state")
}

// Bootstrap reconciles the owner with the remote once per process.
//
// When the remote has a document, it wins: the local ledger is overwritten
// silently, so the overwrite does not trigger an immediate push of the
// document that was just downloaded. When the remote is empty, the local
// ledger is seeded there. Remote failures are logged and leave the local
// ledger untouched.
func (r *Reconciler) Bootstrap(ctx context.Context, ownerKey string) {
	if r.remote == nil {
		return
	}

	r.mu.Lock()
	if r.bootstrapped[ownerKey] {
		r.mu.Unlock()
		return
	}
	r.bootstrapped[ownerKey] = true
	r.mu.Unlock()

	blob, err := r.remote.Get(ctx, ownerKey)
	switch {
	case err == nil:
		l := ledger.Parse(blob.Data)
		payload := l.Encode()

		err = r.store.Replace(ownerKey, l)
		if err != nil {
			bootstraps.WithLabelValues("error").Inc()
			r.fail(ownerKey, err)
			return
		}

		bootstraps.WithLabelValues("pulled").Inc()

		r.mu.Lock()
		r.lastPayload[ownerKey] = payload
		r.lastSynced[ownerKey] = blob.UpdatedAt
		r.mu.Unlock()

		log.Info().Str("owner", ownerKey).Msg("bootstrapped ledger from remote")

	case errors.Is(err, remote.ErrNotFound):
		l, err := r.store.Load(ownerKey)
		if err != nil {
			bootstraps.WithLabelValues("error").Inc()
			r.fail(ownerKey, err)
			return
		}

		payload := l.Encode()
		syncedAt, err := r.remote.Put(ctx, ownerKey, payload)
		if err != nil {
			bootstraps.WithLabelValues("error").Inc()
			r.fail(ownerKey, err)
			return
		}

		bootstraps.WithLabelValues("seeded").Inc()

		r.mu.Lock()
		r.lastPayload[ownerKey] = payload
		r.lastSynced[ownerKey] = syncedAt
		r.mu.Unlock()

		log.Info().Str("owner", ownerKey).Msg("seeded remote with local ledger")

	default:
		bootstraps.WithLabelValues("error").Inc()
		r.fail(ownerKey, err)
	}
}

// Status returns the sync status of the owner.
func (r *Reconciler) Status(ownerKey string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := Status{State: StateIdle}

	if at, ok := r.lastSynced[ownerKey]; ok {
		status.LastSyncedAt = &at
	}

	switch {
	case r.inflight[ownerKey]:
		status.State = StateSyncing
	case r.timers[ownerKey] != nil || r.pending[ownerKey]:
		status.State = StatePending
	case r.lastErr[ownerKey] != nil:
		status.State = StateError
	}

	return status
}
