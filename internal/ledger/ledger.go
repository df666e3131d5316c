// Package ledger defines the versioned ledger document that holds all
// attendance and salary data for one owner.
package ledger

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/house-help/backend/internal/types"
)

// CurrentVersion is the version of the persisted ledger schema.
//
// Readers of older versions upgrade structurally: absent collections are
// defaulted to empty and the version is set to CurrentVersion. Field
// semantics are never migrated.
const CurrentVersion = 3

// Status is the attendance status of a worker on one day.
type Status string

const (
	StatusWorked Status = "WORKED"
	StatusAbsent Status = "ABSENT"
	StatusHalf   Status = "HALF"
	StatusOff    Status = "OFF"
)

// Valid reports whether the status is one of the known attendance statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWorked, StatusAbsent, StatusHalf, StatusOff:
		return true
	}

	return false
}

// Timestamps are the creation and update times carried by ledger entities.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"` // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt"` // Last time the resource was updated
}

// Worker is a household worker whose attendance is tracked.
type Worker struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	DefaultShiftLabel string    `json:"defaultShiftLabel,omitempty"`
	Timestamps
}

// ShiftEntry is the attendance record of one worker for one day.
// There is at most one entry per worker and day.
type ShiftEntry struct {
	ID       uuid.UUID `json:"id"`
	WorkerID uuid.UUID `json:"workerId"`
	Day      types.Day `json:"dateISO"`
	Status   Status    `json:"status"`
	Hours    float64   `json:"hours,omitempty"`
	Note     string    `json:"note,omitempty"`
	Timestamps
}

// MonthLock freezes a worker's month once it has been paid out.
// Absence of a record means unlocked.
type MonthLock struct {
	ID       uuid.UUID   `json:"id"`
	WorkerID uuid.UUID   `json:"workerId"`
	Month    types.Month `json:"monthKey"`
	Locked   bool        `json:"locked"`
	LockedAt *time.Time  `json:"lockedAt,omitempty"`
	LockedBy string      `json:"lockedBy,omitempty"`
}

// SalaryConfig holds the salary settings of one worker for one month.
// Absence of a record implies zero salary and zero allowance.
type SalaryConfig struct {
	ID               uuid.UUID   `json:"id"`
	WorkerID         uuid.UUID   `json:"workerId"`
	Month            types.Month `json:"monthKey"`
	MonthlySalary    int64       `json:"monthlySalary"`
	PaidOffAllowance int64       `json:"paidOffAllowance"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// Deduction is an advance or deduction subtracted from the payable salary.
// Each deduction is an independent ledger line, never merged.
type Deduction struct {
	ID       uuid.UUID   `json:"id"`
	WorkerID uuid.UUID   `json:"workerId"`
	Month    types.Month `json:"monthKey"`
	Day      types.Day   `json:"dateISO"`
	Amount   int64       `json:"amount"`
	Note     string      `json:"note,omitempty"`
	Timestamps
}

// Ledger is the aggregate of all entities belonging to one owner.
type Ledger struct {
	Version       int            `json:"version"`
	Workers       []Worker       `json:"workers"`
	Entries       []ShiftEntry   `json:"entries"`
	MonthLocks    []MonthLock    `json:"monthLocks"`
	SalaryConfigs []SalaryConfig `json:"salaryConfigs"`
	Deductions    []Deduction    `json:"deductions"`
}

// Empty returns a ledger with no data at the current schema version.
func Empty() Ledger {
	return Ledger{
		Version:       CurrentVersion,
		Workers:       []Worker{},
		Entries:       []ShiftEntry{},
		MonthLocks:    []MonthLock{},
		SalaryConfigs: []SalaryConfig{},
		Deductions:    []Deduction{},
	}
}

// Parse deserializes persisted bytes into a normalized ledger.
//
// Malformed bytes never surface as errors, they degrade to an empty ledger.
func Parse(raw []byte) Ledger {
	var l Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		return Empty()
	}

	return l.Normalize()
}

// Encode returns the canonical serialization of the ledger.
func (l Ledger) Encode() []byte {
	// Marshalling cannot fail: the ledger contains no unsupported types
	raw, _ := json.Marshal(l.Normalize())
	return raw
}

// Normalize coerces the ledger to the current schema version.
//
// Missing collections become empty, and duplicates on natural keys are
// dropped, keeping the first record per key. Collections are kept in
// newest-first order, so the first record is the most recently written one.
func (l Ledger) Normalize() Ledger {
	next := Empty()

	seenWorkers := map[uuid.UUID]bool{}
	for _, w := range l.Workers {
		if seenWorkers[w.ID] {
			continue
		}

		seenWorkers[w.ID] = true
		next.Workers = append(next.Workers, w)
	}

	seenEntries := map[string]bool{}
	for _, e := range l.Entries {
		key := e.WorkerID.String() + "/" + e.Day.String()
		if seenEntries[key] {
			continue
		}

		seenEntries[key] = true
		next.Entries = append(next.Entries, e)
	}

	seenLocks := map[string]bool{}
	for _, m := range l.MonthLocks {
		key := m.WorkerID.String() + "/" + m.Month.String()
		if seenLocks[key] {
			continue
		}

		seenLocks[key] = true
		next.MonthLocks = append(next.MonthLocks, m)
	}

	seenConfigs := map[string]bool{}
	for _, s := range l.SalaryConfigs {
		key := s.WorkerID.String() + "/" + s.Month.String()
		if seenConfigs[key] {
			continue
		}

		seenConfigs[key] = true
		next.SalaryConfigs = append(next.SalaryConfigs, s)
	}

	seenDeductions := map[uuid.UUID]bool{}
	for _, d := range l.Deductions {
		if seenDeductions[d.ID] {
			continue
		}

		seenDeductions[d.ID] = true
		next.Deductions = append(next.Deductions, d)
	}

	return next
}

// Worker returns the worker with the ID, if any.
func (l Ledger) Worker(id uuid.UUID) (Worker, bool) {
	for _, w := range l.Workers {
		if w.ID == id {
			return w, true
		}
	}

	return Worker{}, false
}

// Entry returns the entry for the worker and day, if any.
func (l Ledger) Entry(workerID uuid.UUID, day types.Day) (ShiftEntry, bool) {
	for _, e := range l.Entries {
		if e.WorkerID == workerID && e.Day.Equal(day) {
			return e, true
		}
	}

	return ShiftEntry{}, false
}

// Lock returns the month lock record for the worker and month, if any.
func (l Ledger) Lock(workerID uuid.UUID, month types.Month) (MonthLock, bool) {
	for _, m := range l.MonthLocks {
		if m.WorkerID == workerID && m.Month.Equal(month) {
			return m, true
		}
	}

	return MonthLock{}, false
}

// Locked reports whether the month is locked for the worker.
func (l Ledger) Locked(workerID uuid.UUID, month types.Month) bool {
	lock, ok := l.Lock(workerID, month)
	return ok && lock.Locked
}

// SalaryConfig returns the salary config for the worker and month, if any.
func (l Ledger) SalaryConfig(workerID uuid.UUID, month types.Month) (SalaryConfig, bool) {
	for _, s := range l.SalaryConfigs {
		if s.WorkerID == workerID && s.Month.Equal(month) {
			return s, true
		}
	}

	return SalaryConfig{}, false
}

// Deduction returns the deduction with the ID, if any.
func (l Ledger) Deduction(id uuid.UUID) (Deduction, bool) {
	for _, d := range l.Deductions {
		if d.ID == id {
			return d, true
		}
	}

	return Deduction{}, false
}

// MonthDeductions returns all deductions of the worker for the month.
func (l Ledger) MonthDeductions(workerID uuid.UUID, month types.Month) []Deduction {
	deductions := make([]Deduction, 0)
	for _, d := range l.Deductions {
		if d.WorkerID == workerID && d.Month.Equal(month) {
			deductions = append(deductions, d)
		}
	}

	return deductions
}

// Totals are the attendance counts of one worker for one month.
type Totals struct {
	Worked int     `json:"worked"`
	Absent int     `json:"absent"`
	Half   int     `json:"half"`
	Off    int     `json:"off"`
	Hours  float64 `json:"hours"`
}

// MonthStats are the attendance totals for a month together with the
// sorted days per status.
type MonthStats struct {
	Totals Totals                 `json:"totals"`
	Days   map[Status][]types.Day `json:"days"`
}

// CountMonth computes the attendance stats of the worker for the month.
func (l Ledger) CountMonth(workerID uuid.UUID, month types.Month) MonthStats {
	stats := MonthStats{
		Days: map[Status][]types.Day{
			StatusWorked: {},
			StatusAbsent: {},
			StatusHalf:   {},
			StatusOff:    {},
		},
	}

	for _, e := range l.Entries {
		if e.WorkerID != workerID || !e.Day.Month().Equal(month) {
			continue
		}

		switch e.Status {
		case StatusWorked:
			stats.Totals.Worked++
		case StatusAbsent:
			stats.Totals.Absent++
		case StatusHalf:
			stats.Totals.Half++
		case StatusOff:
			stats.Totals.Off++
		default:
			continue
		}

		stats.Totals.Hours += e.Hours
		stats.Days[e.Status] = append(stats.Days[e.Status], e.Day)
	}

	for _, days := range stats.Days {
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	}

	return stats
}
