// Package store implements the ledger store, the single source of truth for
// all ledger data of an owner.
//
// Every mutation is a read-modify-write over the whole ledger document:
// load the current ledger, compute the new collection, save the document
// back. The persistence medium is a single blob per owner, so there is no
// per-record addressing that would be cheaper than reading the whole thing.
// The blob model is isolated behind this package so that per-record storage
// could be swapped in without touching the salary engine or the handlers.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/models"
	"github.com/house-help/backend/internal/salary"
	"github.com/house-help/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"
)

var (
	ErrMonthLocked          = errors.New("this month is locked and cannot be edited")
	ErrWorkerNameEmpty      = errors.New("the worker name must not be empty")
	ErrInvalidStatus        = errors.New("the attendance status is invalid")
	ErrAmountNotPositive    = errors.New("deduction amounts must be larger than zero")
	ErrWorkerNotFound       = fmt.Errorf("%w worker matching your query", models.ErrResourceNotFound)
	ErrDeductionNotFound    = fmt.Errorf("%w deduction matching your query", models.ErrResourceNotFound)
	ErrDayOutsideMonth      = errors.New("the day must be inside the requested month")
)

// Change is the notification emitted on every non-silent save.
//
// It deliberately carries no delta: consumers must re-read the full ledger.
type Change struct {
	OwnerKey string
	At       time.Time
}

// Store is the ledger store. All operations are serialized by a mutex, so
// within one process ledger mutations are strictly ordered.
type Store struct {
	mu         sync.Mutex
	subs       []chan Change
	autofilled map[string]bool
}

// New returns a new ledger store.
func New() *Store {
	return &Store{
		autofilled: map[string]bool{},
	}
}

// Subscribe returns a channel on which change notifications are delivered.
func (s *Store) Subscribe() <-chan Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Change, 64)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) notify(ownerKey string) {
	change := Change{OwnerKey: ownerKey, At: time.Now().In(time.UTC)}

	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
			// A full subscriber re-reads the whole ledger on the next
			// event anyway
			log.Warn().Str("owner", ownerKey).Msg("change subscriber is not keeping up, dropping event")
		}
	}
}

// load reads and normalizes the persisted ledger of the owner.
//
// Malformed or missing data degrades to an empty ledger. When normalization
// changed the persisted shape, the normalized document is written back
// silently so that subsequent reads are already normalized.
func (s *Store) load(ownerKey string) (ledger.Ledger, error) {
	var blob models.LedgerBlob
	err := models.DB.First(&blob, "owner_key = ?", ownerKey).Error
	if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		return ledger.Empty(), err
	}

	l := ledger.Parse(blob.Data)

	if !bytes.Equal(l.Encode(), blob.Data) {
		err = s.save(ownerKey, l, true)
		if err != nil {
			return ledger.Empty(), err
		}
	}

	return l, nil
}

// save normalizes and persists the ledger and, unless silent, emits a
// change notification.
func (s *Store) save(ownerKey string, l ledger.Ledger, silent bool) error {
	blob := models.LedgerBlob{
		OwnerKey: ownerKey,
		Data:     l.Encode(),
	}

	err := models.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&blob).Error
	if err != nil {
		return err
	}

	if !silent {
		s.notify(ownerKey)
	}

	return nil
}

// Load returns the current ledger of the owner.
func (s *Store) Load(ownerKey string) (ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ownerKey)
}

// Replace overwrites the owner's ledger without emitting a change event.
//
// This is used by the sync bootstrap: overwriting local state with the
// just-fetched remote document must not immediately re-trigger a push of
// that same document.
func (s *Store) Replace(ownerKey string, l ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ownerKey, l.Normalize(), true)
}

// UpsertWorker creates or updates a worker. The name must be non-empty
// after trimming. A zero ID creates a new worker.
func (s *Store) UpsertWorker(ownerKey string, id uuid.UUID, name, defaultShiftLabel string) (ledger.Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Worker{}, ErrWorkerNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return ledger.Worker{}, err
	}

	now := time.Now().In(time.UTC)

	worker := ledger.Worker{
		ID:                id,
		Name:              name,
		DefaultShiftLabel: strings.TrimSpace(defaultShiftLabel),
		Timestamps:        ledger.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if id == uuid.Nil {
		worker.ID = uuid.New()
		l.Workers = append([]ledger.Worker{worker}, l.Workers...)
	} else {
		existing, ok := l.Worker(id)
		if !ok {
			return ledger.Worker{}, ErrWorkerNotFound
		}

		worker.CreatedAt = existing.CreatedAt
		for i := range l.Workers {
			if l.Workers[i].ID == id {
				l.Workers[i] = worker
			}
		}
	}

	return worker, s.save(ownerKey, l, false)
}

// DeleteWorker deletes a worker and cascades to every entry, lock, salary
// config and deduction referencing it.
func (s *Store) DeleteWorker(ownerKey string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return err
	}

	if _, ok := l.Worker(id); !ok {
		return ErrWorkerNotFound
	}

	next := ledger.Empty()
	for _, w := range l.Workers {
		if w.ID != id {
			next.Workers = append(next.Workers, w)
		}
	}
	for _, e := range l.Entries {
		if e.WorkerID != id {
			next.Entries = append(next.Entries, e)
		}
	}
	for _, m := range l.MonthLocks {
		if m.WorkerID != id {
			next.MonthLocks = append(next.MonthLocks, m)
		}
	}
	for _, c := range l.SalaryConfigs {
		if c.WorkerID != id {
			next.SalaryConfigs = append(next.SalaryConfigs, c)
		}
	}
	for _, d := range l.Deductions {
		if d.WorkerID != id {
			next.Deductions = append(next.Deductions, d)
		}
	}

	return s.save(ownerKey, next, false)
}

// UpsertEntry creates or updates the attendance entry of a worker for one
// day. The entry is keyed by its natural key (worker, day): an existing
// entry for the day is replaced, keeping its ID, so callers can never
// create duplicate entries for the same day.
func (s *Store) UpsertEntry(ownerKey string, workerID uuid.UUID, day types.Day, status ledger.Status, hours float64, note string) (ledger.ShiftEntry, error) {
	if !status.Valid() {
		return ledger.ShiftEntry{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return ledger.ShiftEntry{}, err
	}

	if _, ok := l.Worker(workerID); !ok {
		return ledger.ShiftEntry{}, ErrWorkerNotFound
	}

	if l.Locked(workerID, day.Month()) {
		return ledger.ShiftEntry{}, ErrMonthLocked
	}

	now := time.Now().In(time.UTC)

	entry := ledger.ShiftEntry{
		ID:         uuid.New(),
		WorkerID:   workerID,
		Day:        day,
		Status:     status,
		Hours:      hours,
		Note:       strings.TrimSpace(note),
		Timestamps: ledger.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if existing, ok := l.Entry(workerID, day); ok {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		for i := range l.Entries {
			if l.Entries[i].ID == existing.ID {
				l.Entries[i] = entry
			}
		}
	} else {
		l.Entries = append([]ledger.ShiftEntry{entry}, l.Entries...)
	}

	return entry, s.save(ownerKey, l, false)
}

// SetMonthLock locks or unlocks a month for a worker.
//
// Toggling the lock is unconditional in both directions and is itself never
// gated. Locking is pure metadata: it gates future writes and never touches
// the underlying values.
func (s *Store) SetMonthLock(ownerKey string, workerID uuid.UUID, month types.Month, locked bool, lockedBy string) (ledger.MonthLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return ledger.MonthLock{}, err
	}

	if _, ok := l.Worker(workerID); !ok {
		return ledger.MonthLock{}, ErrWorkerNotFound
	}

	now := time.Now().In(time.UTC)

	lock, ok := l.Lock(workerID, month)
	if ok {
		lock.Locked = locked
		if locked {
			lock.LockedAt = &now
			lock.LockedBy = lockedBy
		}

		for i := range l.MonthLocks {
			if l.MonthLocks[i].ID == lock.ID {
				l.MonthLocks[i] = lock
			}
		}
	} else {
		lock = ledger.MonthLock{
			ID:       uuid.New(),
			WorkerID: workerID,
			Month:    month,
			Locked:   locked,
		}
		if locked {
			lock.LockedAt = &now
			lock.LockedBy = lockedBy
		}

		l.MonthLocks = append([]ledger.MonthLock{lock}, l.MonthLocks...)
	}

	return lock, s.save(ownerKey, l, false)
}

// UpsertSalaryConfig creates or updates the salary settings of a worker for
// one month. Out-of-range values are clamped silently, never rejected.
func (s *Store) UpsertSalaryConfig(ownerKey string, workerID uuid.UUID, month types.Month, monthlySalary, paidOffAllowance int64) (ledger.SalaryConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return ledger.SalaryConfig{}, err
	}

	if _, ok := l.Worker(workerID); !ok {
		return ledger.SalaryConfig{}, ErrWorkerNotFound
	}

	if l.Locked(workerID, month) {
		return ledger.SalaryConfig{}, ErrMonthLocked
	}

	config := ledger.SalaryConfig{
		ID:               uuid.New(),
		WorkerID:         workerID,
		Month:            month,
		MonthlySalary:    clamp(monthlySalary, 0, salary.MaxMonthlySalary),
		PaidOffAllowance: clamp(paidOffAllowance, 0, salary.MaxPaidOffAllowance),
		UpdatedAt:        time.Now().In(time.UTC),
	}

	if existing, ok := l.SalaryConfig(workerID, month); ok {
		config.ID = existing.ID
		for i := range l.SalaryConfigs {
			if l.SalaryConfigs[i].ID == existing.ID {
				l.SalaryConfigs[i] = config
			}
		}
	} else {
		l.SalaryConfigs = append([]ledger.SalaryConfig{config}, l.SalaryConfigs...)
	}

	return config, s.save(ownerKey, l, false)
}

// AddDeduction adds a deduction for the month the day belongs to. Every
// deduction is an independent ledger line, deductions are never merged.
func (s *Store) AddDeduction(ownerKey string, workerID uuid.UUID, day types.Day, amount int64, note string) (ledger.Deduction, error) {
	if amount <= 0 {
		return ledger.Deduction{}, ErrAmountNotPositive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return ledger.Deduction{}, err
	}

	if _, ok := l.Worker(workerID); !ok {
		return ledger.Deduction{}, ErrWorkerNotFound
	}

	if l.Locked(workerID, day.Month()) {
		return ledger.Deduction{}, ErrMonthLocked
	}

	now := time.Now().In(time.UTC)

	deduction := ledger.Deduction{
		ID:         uuid.New(),
		WorkerID:   workerID,
		Month:      day.Month(),
		Day:        day,
		Amount:     amount,
		Note:       strings.TrimSpace(note),
		Timestamps: ledger.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	l.Deductions = append([]ledger.Deduction{deduction}, l.Deductions...)

	return deduction, s.save(ownerKey, l, false)
}

// DeleteDeduction removes a deduction. The month of the deduction must not
// be locked.
func (s *Store) DeleteDeduction(ownerKey string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ownerKey)
	if err != nil {
		return err
	}

	deduction, ok := l.Deduction(id)
	if !ok {
		return ErrDeductionNotFound
	}

	if l.Locked(deduction.WorkerID, deduction.Month) {
		return ErrMonthLocked
	}

	next := l.Deductions[:0:0]
	for _, d := range l.Deductions {
		if d.ID != id {
			next = append(next, d)
		}
	}
	l.Deductions = next

	return s.save(ownerKey, l, false)
}

func clamp(n, min, max int64) int64 {
	if n < min {
		return min
	}

	if n > max {
		return max
	}

	return n
}
