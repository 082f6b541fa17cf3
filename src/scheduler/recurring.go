package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/store"
)

// RecurringScheduler materializes due recurring expenses into EXPENSE
// transactions on a daily timer. Each definition is processed in its own
// atomic unit; one failure never poisons the rest of the run.
type RecurringScheduler struct {
	store      store.LedgerStore
	hour       int
	minute     int
	invalidate func() // report cache flush, optional

	now func() time.Time
}

func NewRecurringScheduler(st store.LedgerStore, hour, minute int, invalidate func()) *RecurringScheduler {
	return &RecurringScheduler{
		store:      st,
		hour:       hour,
		minute:     minute,
		invalidate: invalidate,
		now:        time.Now,
	}
}

// Run blocks until ctx is cancelled, firing once per day at the configured
// time.
func (s *RecurringScheduler) Run(ctx context.Context) {
	logger.L.Info("Recurring scheduler started", "hour", s.hour, "minute", s.minute)
	for {
		next := s.nextRunAt(s.now())
		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.L.Info("Recurring scheduler stopped")
			return
		case <-timer.C:
		}
		processed, failed := s.RunOnce(ctx)
		logger.L.Info("Recurring scheduler run finished", "processed", processed, "failed", failed)
	}
}

func (s *RecurringScheduler) nextRunAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce scans for due ACTIVE definitions and processes each one. A
// definition that is behind by several periods advances only one period here;
// the next run picks it up again, so catch-up happens incrementally.
func (s *RecurringScheduler) RunOnce(ctx context.Context) (processed, failed int) {
	now := s.now().UTC()
	due, err := s.store.ListDueRecurringExpenses(ctx, now)
	if err != nil {
		logger.L.Error("Recurring scheduler: due scan failed", "error", err)
		return 0, 0
	}

	for _, def := range due {
		if err := s.processOne(ctx, def); err != nil {
			failed++
			logger.L.Error("Recurring scheduler: definition failed", "recurringID", def.ID, "name", def.Name, "error", err)
			continue
		}
		processed++
	}

	if processed > 0 && s.invalidate != nil {
		s.invalidate()
	}
	return processed, failed
}

// processOne creates the expense transaction and advances the due date in one
// atomic unit.
func (s *RecurringScheduler) processOne(ctx context.Context, def models.RecurringExpense) error {
	description := def.Name
	if def.Category != "" {
		description = fmt.Sprintf("[%s] %s", def.Category, def.Name)
	}
	tx := &models.Transaction{
		Kind:          models.KindExpense,
		Amount:        def.Amount,
		PaymentMethod: "TRANSFER",
		PaymentStatus: models.StatusPaid,
		Category:      def.Category,
		Description:   description,
		Date:          def.NextDueDate,
	}

	err := s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		if err := atx.InsertTransaction(ctx, tx); err != nil {
			return err
		}
		return atx.AdvanceRecurringExpense(ctx, def.ID, def.Frequency.NextAfter(def.NextDueDate))
	})
	if err != nil {
		return err
	}

	logger.L.Info("Recurring expense materialized",
		"recurringID", def.ID, "transactionID", tx.ID, "amount", def.Amount,
		"nextDue", def.Frequency.NextAfter(def.NextDueDate).Format("2006-01-02"))
	return nil
}
