package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lremanager/backend/services/ledger-generator/internal/generator"
	"lremanager/backend/services/ledger-generator/internal/models"
)

// Submission outcomes, used as metric labels.
const (
	OutcomeCreated        = "created"
	OutcomeRejected       = "rejected"
	OutcomeTransportError = "transport_error"
	OutcomeDryRun         = "dry_run"
)

// ErrNoPrograms is returned when Run is called without programs.
var ErrNoPrograms = errors.New("service: no programs to seed")

// Program is one seeding target.
type Program struct {
	ID    int64
	Name  string
	Mode  generator.Mode
	Count int
}

// TransactionSource produces transactions. Called from a single goroutine.
type TransactionSource interface {
	Generate(mode generator.Mode) models.Transaction
}

// LedgerWriter submits one transaction and reports the raw HTTP outcome.
type LedgerWriter interface {
	CreateEntry(ctx context.Context, programID int64, tx models.Transaction) (int, []byte, error)
}

// Recorder observes individual submissions.
type Recorder interface {
	ObserveSubmission(programID int64, outcome string, elapsed time.Duration)
}

// Options tune a Seeder. The zero value submits sequentially and sends every record.
type Options struct {
	Workers int
	DryRun  bool
	Seed    uint64
	Color   bool
}

// Seeder drives generation and submission for a list of programs and writes the
// human report to out.
type Seeder struct {
	source   TransactionSource
	writer   LedgerWriter
	recorder Recorder
	out      io.Writer
	logger   *zap.Logger
	opts     Options

	banner *color.Color
	failed *color.Color
	outMu  sync.Mutex
	now    func() time.Time
}

// NewSeeder builds a seeder. recorder may be nil.
func NewSeeder(source TransactionSource, writer LedgerWriter, recorder Recorder, out io.Writer, logger *zap.Logger, opts Options) *Seeder {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	banner := color.New(color.FgCyan, color.Bold)
	failed := color.New(color.FgRed)
	if opts.Color {
		banner.EnableColor()
		failed.EnableColor()
	} else {
		banner.DisableColor()
		failed.DisableColor()
	}
	return &Seeder{
		source:   source,
		writer:   writer,
		recorder: recorder,
		out:      out,
		logger:   logger,
		opts:     opts,
		banner:   banner,
		failed:   failed,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run seeds every program in order. Submission failures are reported on out and
// counted, never returned. Cancelling ctx stops between submissions; the summary
// still covers the work done.
func (s *Seeder) Run(ctx context.Context, programs []Program) (*models.RunSummary, error) {
	if len(programs) == 0 {
		return nil, ErrNoPrograms
	}

	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		Seed:      s.opts.Seed,
		StartedAt: s.now(),
		Programs:  make([]models.ProgramSummary, 0, len(programs)),
	}
	s.logger.Info("seeding started",
		zap.String("run_id", summary.RunID),
		zap.Int("programs", len(programs)),
		zap.Int("workers", s.opts.Workers),
		zap.Bool("dry_run", s.opts.DryRun),
	)

	for _, p := range programs {
		if ctx.Err() != nil {
			break
		}
		s.println(s.banner, fmt.Sprintf("Generating transactions for %s...", p.Name))
		summary.Programs = append(summary.Programs, s.runProgram(ctx, p))
	}

	summary.FinishedAt = s.now()
	summary.Canceled = ctx.Err() != nil
	attempted, created, failed := summary.Totals()
	s.logger.Info("seeding finished",
		zap.String("run_id", summary.RunID),
		zap.Int("attempted", attempted),
		zap.Int("created", created),
		zap.Int("failed", failed),
		zap.Bool("canceled", summary.Canceled),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (s *Seeder) runProgram(ctx context.Context, p Program) models.ProgramSummary {
	ps := models.ProgramSummary{ProgramID: p.ID, Name: p.Name, Mode: p.Mode.String()}
	var mu sync.Mutex
	tally := func(outcome string) {
		mu.Lock()
		defer mu.Unlock()
		ps.Attempted++
		switch outcome {
		case OutcomeCreated:
			ps.Created++
		case OutcomeDryRun:
			ps.DryRun++
		default:
			ps.Failed++
		}
	}

	if s.opts.Workers == 1 {
		for i := 0; i < p.Count && ctx.Err() == nil; i++ {
			tally(s.submit(ctx, p, s.source.Generate(p.Mode)))
		}
		return ps
	}

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i := 0; i < p.Count && ctx.Err() == nil; i++ {
		tx := s.source.Generate(p.Mode)
		g.Go(func() error {
			tally(s.submit(ctx, p, tx))
			return nil
		})
	}
	_ = g.Wait()
	return ps
}

func (s *Seeder) submit(ctx context.Context, p Program, tx models.Transaction) string {
	start := time.Now()
	outcome := s.deliver(ctx, p, tx)
	if s.recorder != nil {
		s.recorder.ObserveSubmission(p.ID, outcome, time.Since(start))
	}
	return outcome
}

func (s *Seeder) deliver(ctx context.Context, p Program, tx models.Transaction) string {
	if s.opts.DryRun {
		data, err := json.Marshal(tx)
		if err != nil {
			s.logger.Error("encode transaction", zap.Int64("program_id", p.ID), zap.Error(err))
			return OutcomeTransportError
		}
		s.println(nil, string(data))
		return OutcomeDryRun
	}

	status, body, err := s.writer.CreateEntry(ctx, p.ID, tx)
	if err != nil {
		s.logger.Warn("ledger submission failed", zap.Int64("program_id", p.ID), zap.Error(err))
		s.println(s.failed, fmt.Sprintf("Error creating transaction: %v", err))
		return OutcomeTransportError
	}
	if status != http.StatusCreated {
		s.logger.Debug("ledger rejected transaction", zap.Int64("program_id", p.ID), zap.Int("status", status))
		s.println(s.failed, "Error creating transaction: "+string(body))
		return OutcomeRejected
	}
	return OutcomeCreated
}

func (s *Seeder) println(c *color.Color, line string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if c == nil {
		fmt.Fprintln(s.out, line)
		return
	}
	c.Fprintln(s.out, line)
}
