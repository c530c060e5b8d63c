// Package engine implements the Execution Engine (spec §4.6, C6): the
// per-sample driver that writes the integrator's phase-space point into
// cuba::ps_points/ps_weight, runs the main Path in order (honouring any
// Looper sub-paths internally), and reads back the momemta integrand
// sinks.
//
// This plays the role gofem's fem.Domain.SolveOneStep / fem.Solver loop
// plays for a single load step, generalised from a fixed Dof-based solve
// to the spec's polymorphic module Work() dispatch.
package engine

import (
	"github.com/momemta/momemta-go/graph"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/internal/xlog"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
)

// Status is the terminal outcome of an integration run (spec §6
// getIntegrationStatus).
type Status int

const (
	StatusSuccess Status = iota
	StatusAborted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusAborted:
		return "Aborted"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// defaultFailureThreshold caps the number of per-sample runtime errors
// tolerated before integration is abandoned (spec §7 "repeated failures
// (configurable threshold) abort integration with IntegrationStatus::Failed").
const defaultFailureThreshold = 100

// Engine drives one Plan. It is not safe for concurrent use by more than
// one goroutine — the Integrator Adapter keeps one Engine per replica
// (spec §4.7 "Concurrency contract").
type Engine struct {
	Plan             *graph.Plan
	Logger           *xlog.Logger
	FailureThreshold int

	failures int
	status   Status
	begun    bool
}

// New returns an Engine over plan. A nil logger falls back to xlog.Default;
// a zero threshold falls back to defaultFailureThreshold.
func New(plan *graph.Plan, logger *xlog.Logger, failureThreshold int) *Engine {
	if logger == nil {
		logger = xlog.Default
	}
	if failureThreshold <= 0 {
		failureThreshold = defaultFailureThreshold
	}
	return &Engine{Plan: plan, Logger: logger, FailureThreshold: failureThreshold}
}

// Configure calls Configure on every surviving module instance (spec §4.4
// lifecycle step 1), once.
func (e *Engine) Configure() error {
	for _, entry := range e.Plan.AllEntries() {
		if err := module.CallConfigure(entry.Instance); err != nil {
			return &merr.RuntimeError{Module: entry.Name, Err: err}
		}
	}
	return nil
}

// BeginIntegration calls BeginIntegration on every surviving module
// instance, once, before the integrator starts (spec §4.4 lifecycle step 2).
func (e *Engine) BeginIntegration() error {
	for _, entry := range e.Plan.AllEntries() {
		if err := module.CallBeginIntegration(entry.Instance); err != nil {
			return &merr.RuntimeError{Module: entry.Name, Err: err}
		}
	}
	e.begun = true
	e.status = StatusSuccess
	return nil
}

// EndIntegration calls EndIntegration, then Finish, on every surviving
// module instance, once, after the integrator ends (spec §4.4 lifecycle
// step 4).
func (e *Engine) EndIntegration() error {
	for _, entry := range e.Plan.AllEntries() {
		if err := module.CallEndIntegration(entry.Instance); err != nil {
			return &merr.RuntimeError{Module: entry.Name, Err: err}
		}
	}
	for _, entry := range e.Plan.AllEntries() {
		if err := module.CallFinish(entry.Instance); err != nil {
			return &merr.RuntimeError{Module: entry.Name, Err: err}
		}
	}
	return nil
}

// BindEvent populates the input pseudo-module's p4/type slots, in
// declared order, and, if met is non-nil, the met pseudo-module's p4 slot
// (spec §4.6 "Event binding": "a met pseudo-slot provides missing
// transverse momentum when configured").
func (e *Engine) BindEvent(particles []lorentzvector.Particle, met *lorentzvector.LorentzVector) error {
	p4 := make([]lorentzvector.LorentzVector, len(particles))
	types := make([]int, len(particles))
	for i, particle := range particles {
		p4[i] = particle.P4
		types[i] = particle.Type
	}

	e.Plan.InputP4.Set(p4)
	e.Plan.InputType.Set(types)
	if met != nil {
		e.Plan.MetP4.Set(*met)
	}
	return nil
}

// EvaluateSample copies point into cuba::ps_points and weight into
// cuba::ps_weight, runs the main Path in order, and returns the k
// integrand values (spec §4.6 "evaluate_sample"). Any non-Ok status, or a
// runtime error, from a main-Path module makes this sample contribute
// zero to every integrand without running the remaining main-Path
// modules — a runtime error additionally counts toward the engine's
// failure threshold (spec §7).
func (e *Engine) EvaluateSample(point []float64, weight float64) ([]float64, error) {
	e.Plan.CubaPoints.Set(point)
	e.Plan.CubaWeight.Set(weight)

	zero := make([]float64, len(e.Plan.IntegrandHandles))

	for _, entry := range e.Plan.Main {
		status, err := entry.Instance.Work()
		if err != nil {
			e.recordFailure()
			if e.status == StatusFailed {
				return zero, &merr.RuntimeError{Module: entry.Name, Err: err}
			}
			e.Logger.Warnf("module %q: sample contributes 0: %v", entry.Name, err)
			return zero, nil
		}
		if status != module.Ok {
			return zero, nil
		}
	}

	out := make([]float64, len(e.Plan.IntegrandHandles))
	for i, h := range e.Plan.IntegrandHandles {
		out[i] = h.Get()
	}
	return out, nil
}

// EvaluateIntegrand is the single-shot evaluation path of spec §6
// (setEvent + evaluateIntegrand): it runs one sample at a fixed
// phase-space point with a unit Jacobian weight, bypassing the
// integrator entirely.
func (e *Engine) EvaluateIntegrand(point []float64) ([]float64, error) {
	return e.EvaluateSample(point, 1.0)
}

func (e *Engine) recordFailure() {
	e.failures++
	if e.failures >= e.FailureThreshold {
		e.status = StatusFailed
	}
}

// Status reports the engine's current IntegrationStatus (spec §6
// getIntegrationStatus). Abort marks the run as cooperatively cancelled
// rather than failed.
func (e *Engine) Status() Status {
	return e.status
}

// Abort marks the integration as cooperatively cancelled between samples
// (spec §5 "Cancellation").
func (e *Engine) Abort() {
	if e.status != StatusFailed {
		e.status = StatusAborted
	}
}
