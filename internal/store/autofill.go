package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/types"
	"github.com/rs/zerolog/log"
)

// AutoFill marks every day of the current month up to and including
// yesterday as worked for the given worker, for days that have no entry
// yet. Days that already have an entry are never touched, so manual edits
// always win.
//
// The fill runs at most once per owner, worker and month for the lifetime
// of the process. A locked month is skipped without counting as attempted,
// so unlocking the month makes the fill eligible again.
func (s *Store) AutoFill(ownerKey string, workerID uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	month := types.MonthOf(now)
	key := fmt.Sprintf("%s/%s/%s", ownerKey, workerID, month)
	if s.autofilled[key] {
		return nil
	}

	l, err := s.load(ownerKey)
	if err != nil {
		return err
	}

	if _, ok := l.Worker(workerID); !ok {
		return ErrWorkerNotFound
	}

	if l.Locked(workerID, month) {
		return nil
	}

	yesterday := types.DayOf(now).AddDays(-1)
	at := now.In(time.UTC)

	var added int
	for _, day := range types.DaysOfMonth(month) {
		if day.After(yesterday) {
			break
		}

		if _, ok := l.Entry(workerID, day); ok {
			continue
		}

		entry := ledger.ShiftEntry{
			ID:         uuid.New(),
			WorkerID:   workerID,
			Day:        day,
			Status:     ledger.StatusWorked,
			Timestamps: ledger.Timestamps{CreatedAt: at, UpdatedAt: at},
		}

		l.Entries = append([]ledger.ShiftEntry{entry}, l.Entries...)
		added++
	}

	s.autofilled[key] = true

	if added == 0 {
		return nil
	}

	log.Debug().Str("owner", ownerKey).Str("worker", workerID.String()).Stringer("month", month).Int("days", added).Msg("backfilled attendance")

	return s.save(ownerKey, l, false)
}
