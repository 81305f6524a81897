package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lremanager/backend/services/ledger-sink/internal/models"
	"lremanager/backend/services/ledger-sink/internal/store"
)

// ErrInvalidEntry wraps payload validation failures.
var ErrInvalidEntry = errors.New("invalid ledger entry")

// InjectedFailure is returned when the service simulates an upstream error.
type InjectedFailure struct {
	Status int
	Body   string
}

func (f *InjectedFailure) Error() string {
	return fmt.Sprintf("injected failure: status %d", f.Status)
}

// FailurePolicy makes a fraction of creates fail with a fixed response.
type FailurePolicy struct {
	Rate   float64
	Status int
	Body   string
}

// LedgerService validates and stores ledger entries.
type LedgerService struct {
	store    *store.MemoryStore
	validate *validator.Validate
	logger   *zap.Logger
	failure  FailurePolicy
	roll     func() float64
	newID    func() string
	now      func() time.Time
}

// NewLedgerService builds service.
func NewLedgerService(st *store.MemoryStore, failure FailurePolicy, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:    st,
		validate: validator.New(),
		logger:   logger,
		failure:  failure,
		roll:     rand.Float64,
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates input and stores it for programID.
func (s *LedgerService) Create(ctx context.Context, programID int64, in models.LedgerEntryInput) (*models.LedgerEntry, error) {
	program, err := s.store.Program(programID)
	if err != nil {
		return nil, err
	}
	if s.failure.Rate > 0 && s.roll() < s.failure.Rate {
		s.logger.Debug("injecting failure", zap.Int64("program_id", programID), zap.Int("status", s.failure.Status))
		return nil, &InjectedFailure{Status: s.failure.Status, Body: s.failure.Body}
	}
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, describe(err))
	}
	if err := in.CheckActuals(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, err)
	}

	entry := models.NewLedgerEntry(s.newID(), program, in, s.now())
	if err := s.store.Add(entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns one page of a program ledger. page starts at 1.
func (s *LedgerService) List(_ context.Context, programID int64, page, pageSize int, search string) (*models.LedgerPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	entries, total, err := s.store.List(programID, search, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &models.LedgerPage{Entries: entries, Total: total}, nil
}

// Delete removes one entry.
func (s *LedgerService) Delete(_ context.Context, id string) error {
	return s.store.Delete(id)
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("%s failed %q validation", verrs[0].Field(), verrs[0].Tag())
	}
	return err.Error()
}
