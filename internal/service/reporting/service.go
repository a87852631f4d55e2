// Package reporting builds the weekly activity digest of each breeder.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
	"github.com/mamadbah2/birdo/internal/service/finance"
)

const periodDays = 7

// Store is the persistence the service needs.
type Store interface {
	ListProfiles(ctx context.Context) ([]models.Breeder, error)
	CountBirds(ctx context.Context, userID string, f mongodb.BirdFilter) (int, error)
	ListPairs(ctx context.Context, userID string) ([]models.BreedingPair, error)
	ListTransactions(ctx context.Context, userID string, f mongodb.TransactionFilter) ([]models.Transaction, error)
	SaveWeeklyDigest(ctx context.Context, digest models.WeeklyDigest) error
}

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Notify(ctx context.Context, phone, body string) error
}

// Service builds, stores and delivers weekly digests.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. notifier may be nil, in
// which case digests are only stored.
func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, logger: logger, now: time.Now}
}

// Period returns the seven calendar days ending on end, as YYYY-MM-DD.
func Period(end time.Time) (string, string) {
	start := end.AddDate(0, 0, -(periodDays - 1))
	return start.Format(models.DateLayout), end.Format(models.DateLayout)
}

// BuildDigest aggregates the week ending on end for one breeder.
func (s *Service) BuildDigest(ctx context.Context, userID string, end time.Time) (models.WeeklyDigest, error) {
	from, to := Period(end)
	d := models.WeeklyDigest{
		ID:          fmt.Sprintf("%s:%s", userID, from),
		UserID:      userID,
		PeriodStart: from,
		PeriodEnd:   to,
		CreatedAt:   s.now().UTC(),
	}

	var err error
	d.ActiveBirds, err = s.store.CountBirds(ctx, userID, mongodb.BirdFilter{
		ExcludeStatuses: []models.BirdStatus{models.BirdSold, models.BirdDeceased},
	})
	if err != nil {
		return models.WeeklyDigest{}, fmt.Errorf("count active birds: %w", err)
	}

	d.BirdsBorn, err = s.store.CountBirds(ctx, userID, mongodb.BirdFilter{BornFrom: from, BornTo: to})
	if err != nil {
		return models.WeeklyDigest{}, fmt.Errorf("count births: %w", err)
	}

	pairs, err := s.store.ListPairs(ctx, userID)
	if err != nil {
		return models.WeeklyDigest{}, fmt.Errorf("load pairs: %w", err)
	}
	for _, p := range pairs {
		for _, c := range p.Cycles {
			if c.Status != models.CycleInProgress {
				continue
			}
			d.CyclesInProgress++
			d.EggsLaid += c.EggsCount
			d.ChicksHatched += c.HatchedCount
		}
	}

	txs, err := s.store.ListTransactions(ctx, userID, mongodb.TransactionFilter{From: from, To: to})
	if err != nil {
		return models.WeeklyDigest{}, fmt.Errorf("load transactions: %w", err)
	}
	sum := finance.Summarize(txs)
	d.Income, d.Expense, d.Balance = sum.Income, sum.Expense, sum.Balance

	return d, nil
}

// FormatDigest renders a digest as a chat message.
func FormatDigest(d models.WeeklyDigest, breeder string) string {
	var b strings.Builder
	if breeder != "" {
		fmt.Fprintf(&b, "Weekly summary for %s (%s to %s)\n", breeder, d.PeriodStart, d.PeriodEnd)
	} else {
		fmt.Fprintf(&b, "Weekly summary (%s to %s)\n", d.PeriodStart, d.PeriodEnd)
	}
	fmt.Fprintf(&b, "Birds in the aviary: %d\n", d.ActiveBirds)
	fmt.Fprintf(&b, "Hatched this week: %d\n", d.BirdsBorn)
	if d.CyclesInProgress == 0 {
		b.WriteString("No breeding cycle in progress.\n")
	} else {
		fmt.Fprintf(&b, "Cycles in progress: %d (%d eggs, %d chicks)\n", d.CyclesInProgress, d.EggsLaid, d.ChicksHatched)
	}
	fmt.Fprintf(&b, "Income %.2f | Expense %.2f | Balance %.2f", d.Income, d.Expense, d.Balance)
	return b.String()
}

// SendWeeklyDigests builds and stores the digest of every breeder for the
// week ending on end, delivering it to breeders with a phone number when a
// notifier is configured. One breeder failing does not stop the others.
func (s *Service) SendWeeklyDigests(ctx context.Context, end time.Time) error {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	var errs []error
	for _, p := range profiles {
		if err := s.digestFor(ctx, p, end); err != nil {
			s.logger.Error("weekly digest failed", zap.String("user_id", p.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("breeder %s: %w", p.ID, err))
		}
	}
	s.logger.Info("weekly digests processed", zap.Int("breeders", len(profiles)), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func (s *Service) digestFor(ctx context.Context, p models.Breeder, end time.Time) error {
	d, err := s.BuildDigest(ctx, p.ID, end)
	if err != nil {
		return err
	}

	if s.notifier != nil && strings.TrimSpace(p.Phone) != "" {
		if err := s.notifier.Notify(ctx, p.Phone, FormatDigest(d, p.Name)); err != nil {
			// still persisted, flagged as undelivered
			s.logger.Warn("weekly digest not delivered", zap.String("user_id", p.ID), zap.Error(err))
		} else {
			d.Delivered = true
		}
	}

	return s.store.SaveWeeklyDigest(ctx, d)
}
