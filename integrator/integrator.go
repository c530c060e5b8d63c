// Package integrator implements the Integrator Adapter (spec §4.7, C7):
// a single-callback bridge between an external Cuba-style numerical
// integrator and a pool of Execution Engine replicas. Grounded on
// fem/solver.go's mpi.IsOn()/mpi.Rank()/mpi.Size() replica-selection
// guard, generalised from "which MPI rank owns this equation block" to
// "which Engine replica owns this core index".
package integrator

import (
	"runtime"

	"github.com/cpmech/gosl/mpi"

	"github.com/momemta/momemta-go/engine"
	"github.com/momemta/momemta-go/internal/merr"
)

// Sample is one evaluated point, mirroring the external integrator's
// callback shape (nDim, x[], nComp, out[], ctx, nVec, core, w) — ctx is
// implicit here since each Adapter closes over its own replicas.
type Sample struct {
	Point  []float64
	Weight float64
	Core   int
}

// Result is the outcome of a single Callback invocation: either nComp
// integrand values, or an error describing why the sample contributed
// nothing.
type Result struct {
	Values []float64
	Err    error
}

// ReplicaCount picks the adapter's replica pool size (spec §4.7
// "Concurrency contract", option b): the MPI world size when gosl/mpi is
// initialised (a distributed run), otherwise one replica per logical
// CPU for a local goroutine pool.
func ReplicaCount() int {
	if mpi.IsOn() {
		return mpi.Size()
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// Adapter owns a fixed-size slice of Engine replicas, each with its own
// Pool, and routes callbacks to them by core index. Each replica is
// single-threaded: the adapter never lets two samples enter the same
// replica concurrently.
type Adapter struct {
	replicas []*engine.Engine
}

// codeNoReplicas is not a native integrator status code (there is no
// callback in flight yet); it marks Adapter construction failure in the
// same IntegrationError shape the callback path uses.
const codeNoReplicas = -1

// New builds an Adapter with the given Engine replicas. Every replica
// must already have had Configure/BeginIntegration called.
func New(replicas []*engine.Engine) (*Adapter, error) {
	if len(replicas) == 0 {
		return nil, &merr.IntegrationError{Code: codeNoReplicas, Reason: "at least one Engine replica is required"}
	}
	return &Adapter{replicas: replicas}, nil
}

// Callback evaluates one sample against the replica named by s.Core,
// wrapping around the replica pool when the integrator hands out a core
// index beyond the pool's size.
func (a *Adapter) Callback(s Sample) Result {
	idx := s.Core % len(a.replicas)
	if idx < 0 {
		idx += len(a.replicas)
	}
	values, err := a.replicas[idx].EvaluateSample(s.Point, s.Weight)
	return Result{Values: values, Err: err}
}

// CallbackMany evaluates nVec samples in one call, as Cuba's vectorised
// callback mode does, distributing them round-robin across replicas so
// each replica still only ever processes one sample at a time.
func (a *Adapter) CallbackMany(points [][]float64, weight float64, baseCore int) []Result {
	results := make([]Result, len(points))
	for i, point := range points {
		results[i] = a.Callback(Sample{Point: point, Weight: weight, Core: baseCore + i})
	}
	return results
}

// Status aggregates the Status() of every replica into one overall
// outcome: Failed if any replica failed, Aborted if none failed but at
// least one aborted, Success otherwise.
func (a *Adapter) Status() engine.Status {
	worst := engine.StatusSuccess
	for _, e := range a.replicas {
		switch e.Status() {
		case engine.StatusFailed:
			return engine.StatusFailed
		case engine.StatusAborted:
			worst = engine.StatusAborted
		}
	}
	return worst
}

// EndIntegration finalises every replica (spec §4.4 endIntegration/finish).
func (a *Adapter) EndIntegration() error {
	for _, e := range a.replicas {
		if err := e.EndIntegration(); err != nil {
			return err
		}
	}
	return nil
}
