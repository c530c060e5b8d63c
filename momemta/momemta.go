// Package momemta is the public facade (spec §6 External Interfaces):
// computeWeights, setEvent+evaluateIntegrand, and getIntegrationStatus,
// wiring the Graph Builder, Execution Engine and Integrator Adapter
// behind the three operations a host application actually calls.
// Grounded on fem.Solver's role as the single entry point that owns a
// Domain, Summary and Solver and exposes Run()/Dosolve() to main.go.
package momemta

import (
	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/engine"
	"github.com/momemta/momemta-go/graph"
	"github.com/momemta/momemta-go/integrator"
	"github.com/momemta/momemta-go/integrator/vegas"
	"github.com/momemta/momemta-go/internal/xlog"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/registry"
)

const defaultFailureThreshold = 100

// IntegrationParams controls the internal vegas oracle's sampling
// (spec.md Non-goals: the real Cuba/Vegas integrator is out of scope,
// so these knobs stand in for its configuration surface).
type IntegrationParams struct {
	Calls      int
	Iterations int
	Bins       int
	Seed       int64
}

// DefaultIntegrationParams is a reasonable default for a single-replica
// run: a few thousand calls, two refinement passes.
func DefaultIntegrationParams() IntegrationParams {
	return IntegrationParams{Calls: 5000, Iterations: 2, Bins: 20}
}

// Weight is one entry of computeWeights' result list, ordered exactly as
// the configuration's integrand list: Value is the integral estimate and
// Err is non-nil once the integration has failed. The Monte-Carlo
// uncertainty of the estimate is not reported.
type Weight struct {
	Value float64
	Err   error
}

// Session owns one built Plan and its Execution Engine; it is the
// process's one entry point for evaluating a configuration against an
// event.
type Session struct {
	plan   *graph.Plan
	engine *engine.Engine
	logger *xlog.Logger
}

// Open builds doc against reg into a Plan, starts the Execution Engine
// and returns a ready-to-drive Session.
func Open(reg *registry.Registry, doc *config.Document, logger *xlog.Logger) (*Session, error) {
	if logger == nil {
		logger = xlog.Default
	}
	builder := graph.NewBuilder(reg, logger)
	plan, err := builder.Build(doc)
	if err != nil {
		return nil, err
	}
	eng := engine.New(plan, logger, defaultFailureThreshold)
	if err := eng.Configure(); err != nil {
		return nil, err
	}
	if err := eng.BeginIntegration(); err != nil {
		return nil, err
	}
	return &Session{plan: plan, engine: eng, logger: logger}, nil
}

// SetEvent binds particles (and an optional reconstructed MET) into the
// session's input slots ahead of evaluateIntegrand/computeWeights calls.
func (s *Session) SetEvent(particles []lorentzvector.Particle, met *lorentzvector.LorentzVector) error {
	return s.engine.BindEvent(particles, met)
}

// EvaluateIntegrand evaluates the bound event at one phase-space point,
// bypassing the integrator entirely — used for testing and by some
// inner loops (spec §6).
func (s *Session) EvaluateIntegrand(point []float64) ([]float64, error) {
	return s.engine.EvaluateSample(point, 1.0)
}

// ComputeWeights runs the configured internal integrator oracle over
// the bound event and returns one Weight per declared integrand.
func (s *Session) ComputeWeights(particles []lorentzvector.Particle, met *lorentzvector.LorentzVector, params IntegrationParams) ([]Weight, error) {
	if err := s.SetEvent(particles, met); err != nil {
		return nil, err
	}
	adapter, err := integrator.New([]*engine.Engine{s.engine})
	if err != nil {
		return nil, err
	}
	outcome := vegas.Integrate(vegas.Config{
		Dimensions: s.plan.Dimensions,
		Components: len(s.plan.Integrand),
		Calls:      params.Calls,
		Iterations: params.Iterations,
		Bins:       params.Bins,
		Seed:       params.Seed,
	}, adapter)

	weights := make([]Weight, len(outcome.Values))
	status := adapter.Status()
	for i := range weights {
		weights[i] = Weight{Value: outcome.Values[i]}
		if status == engine.StatusFailed {
			weights[i].Err = errFailedIntegration
		}
	}
	return weights, nil
}

// errFailedIntegration is attached to every computeWeights result once
// the engine's runtime-error threshold has been crossed.
var errFailedIntegration = &thresholdExceededError{}

type thresholdExceededError struct{}

func (*thresholdExceededError) Error() string {
	return "runtime error threshold exceeded during integration"
}

// Status reports the session's overall outcome (spec §6
// getIntegrationStatus).
func (s *Session) Status() engine.Status {
	return s.engine.Status()
}

// Close finalises every module on the plan (endIntegration/finish).
func (s *Session) Close() error {
	return s.engine.EndIntegration()
}
