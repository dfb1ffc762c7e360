package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/scorekeeper/internal/platform/timeouts"
	"github.com/louisbranch/scorekeeper/internal/services/game/session"
	"github.com/louisbranch/scorekeeper/internal/services/game/storage"
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Store receives completed sessions. Nil keeps them in memory only.
	Store storage.SessionStore
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner executes Lua scenarios against an in-process session manager.
type Runner struct {
	host       sessionHost
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	clock      func() time.Time
	completed  []storage.SessionRecord
}

// NewRunner prepares a scenario runner backed by a fresh session.Manager.
func NewRunner(cfg Config) (*Runner, error) {
	var opts []session.Option
	if cfg.Store != nil {
		opts = append(opts, session.WithStore(cfg.Store))
	}
	return newRunnerWithDeps(cfg, runnerDeps{host: session.NewManager(opts...)})
}

// newRunnerWithDeps builds a Runner from pre-built dependencies.
// Config defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) (*Runner, error) {
	if deps.host == nil {
		return nil, errors.New("session host is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}

	clock := deps.clock
	if clock == nil {
		clock = time.Now
	}

	return &Runner{
		host:       deps.host,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		clock:      clock,
	}, nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{sessionName: scenario.Name}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if r.assertions.Failures > 0 {
		r.logger.Printf("scenario %s: %d assertion(s) failed", scenario.Name, r.assertions.Failures)
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

// Completed returns the sessions completed by scenarios run so far.
func (r *Runner) Completed() []storage.SessionRecord {
	return append([]storage.SessionRecord(nil), r.completed...)
}

// Failures returns how many expectations failed in log-only mode.
func (r *Runner) Failures() int {
	return r.assertions.Failures
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
