// Package scenario ties plan normalization, simulation, storage and
// aggregation together for the CLI and the HTTP API.
package scenario

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/logging"
	"github.com/fincast-dev/fincast/internal/model"
	"github.com/fincast-dev/fincast/internal/plan"
	"github.com/fincast-dev/fincast/internal/runlog"
	"github.com/fincast-dev/fincast/internal/simulate"
	"github.com/fincast-dev/fincast/internal/store"
)

// History records runs and deletions. A nil History records nothing.
type History interface {
	Append(entries []runlog.Entry) error
}

// Service provides scenario operations over a Store.
type Service struct {
	store   store.Store
	log     *logrus.Logger
	opts    plan.Options
	history History
	now     func() time.Time
}

// NewService creates a scenario Service.
func NewService(st store.Store, log *logrus.Logger, opts plan.Options) *Service {
	return &Service{store: st, log: log, opts: opts, now: time.Now}
}

// WithHistory makes the service append to h after every change.
func (s *Service) WithHistory(h History) *Service {
	s.history = h
	return s
}

// Input is one raw plan and where it came from.
type Input struct {
	Raw    plan.RawPlan
	Source string // file path or "api"
}

// Result is a simulated and stored scenario.
type Result struct {
	Name        string                            `json:"name"`
	Source      string                            `json:"source,omitempty"`
	Plan        model.Plan                        `json:"-"`
	Snapshots   []model.Snapshot                  `json:"-"`
	Ambiguities []simulate.ConfigurationAmbiguity `json:"ambiguities"`
}

// Run normalizes, simulates and stores one plan. Validation failures are
// returned as plan.ValidationErrors.
func (s *Service) Run(ctx context.Context, in Input) (Result, error) {
	p, err := plan.Normalize(in.Raw, s.opts)
	if err != nil {
		return Result{}, err
	}
	return s.execute(ctx, p, in.Source)
}

// RunAll validates every input first, then simulates and stores them
// concurrently. Scenario names must be unique across inputs.
func (s *Service) RunAll(ctx context.Context, inputs []Input) ([]Result, error) {
	plans := make([]model.Plan, len(inputs))
	seen := make(map[string]string)
	for i, in := range inputs {
		p, err := plan.Normalize(in.Raw, s.opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Source, err)
		}
		if prev, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("%s: scenario %q already defined by %s", in.Source, p.Name, prev)
		}
		seen[p.Name] = in.Source
		plans[i] = p
	}

	results := make([]Result, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range plans {
		g.Go(func() error {
			res, err := s.execute(gctx, plans[i], inputs[i].Source)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) execute(ctx context.Context, p model.Plan, source string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	entry := s.log.WithField(logging.FieldScenario, p.Name)
	ambiguities := simulate.Ambiguities(p)
	for _, a := range ambiguities {
		entry.WithFields(logrus.Fields{
			logging.FieldAmbiguity: a.Kind,
			logging.FieldAccount:   a.Account,
		}).Warn(a.Message)
	}

	snaps := simulate.Simulate(p)
	if err := s.store.Put(ctx, p.Name, snaps); err != nil {
		return Result{}, fmt.Errorf("storing scenario %q: %w", p.Name, err)
	}
	entry.WithField(logging.FieldMonths, len(snaps)).Info("scenario simulated")

	final := model.Snapshot{}
	if len(snaps) > 0 {
		final = snaps[len(snaps)-1]
	}
	s.record(runlog.Entry{
		Action:   runlog.ActionSimulate,
		Scenario: p.Name,
		Months:   len(snaps),
		NetWorth: aggregate.Money(final.NetWorth),
		Details:  source,
	})

	if ambiguities == nil {
		ambiguities = []simulate.ConfigurationAmbiguity{}
	}
	return Result{Name: p.Name, Source: source, Plan: p, Snapshots: snaps, Ambiguities: ambiguities}, nil
}

func (s *Service) record(e runlog.Entry) {
	if s.history == nil {
		return
	}
	e.Timestamp = s.now().UTC()
	if err := s.history.Append([]runlog.Entry{e}); err != nil {
		s.log.WithError(err).Warn("appending run log")
	}
}

// Records aggregates every stored scenario at res.
func (s *Service) Records(ctx context.Context, res aggregate.Resolution) ([]model.Record, error) {
	records, err := aggregate.FromStore(ctx, s.store, res)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

// Names lists stored scenario names, sorted.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	names, err := s.store.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Get returns a stored scenario's monthly snapshots.
func (s *Service) Get(ctx context.Context, name string) ([]model.Snapshot, error) {
	return s.store.Get(ctx, name)
}

// Delete removes one scenario. Missing scenarios yield store.ErrNotFound.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.log.WithField(logging.FieldScenario, name).Info("scenario deleted")
	s.record(runlog.Entry{Action: runlog.ActionDelete, Scenario: name})
	return nil
}

// Clear removes every scenario.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing scenarios: %w", err)
	}
	s.log.Info("scenarios cleared")
	s.record(runlog.Entry{Action: runlog.ActionClear})
	return nil
}
