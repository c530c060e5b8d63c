// Package lorentzvector implements the four-momentum data model of spec §3
// (LorentzVector, Particle) in the teacher's style of small, allocation-free
// value types with derived-quantity accessors (compare gofem's msolid.State,
// which likewise bundles raw components with derived invariants computed
// on demand rather than cached).
package lorentzvector

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// LorentzVector is a four-momentum (px, py, pz, E). Arithmetic is exact for
// exact inputs and addition is commutative by construction (plain
// component-wise sums).
type LorentzVector struct {
	Px, Py, Pz, E float64
}

// New builds a LorentzVector from its four components.
func New(px, py, pz, e float64) LorentzVector {
	return LorentzVector{Px: px, Py: py, Pz: pz, E: e}
}

// Add returns the sum of two four-vectors. Commutative: Add(a,b) == Add(b,a).
func (v LorentzVector) Add(o LorentzVector) LorentzVector {
	return LorentzVector{Px: v.Px + o.Px, Py: v.Py + o.Py, Pz: v.Pz + o.Pz, E: v.E + o.E}
}

// Sub returns v - o.
func (v LorentzVector) Sub(o LorentzVector) LorentzVector {
	return LorentzVector{Px: v.Px - o.Px, Py: v.Py - o.Py, Pz: v.Pz - o.Pz, E: v.E - o.E}
}

// Scale returns v scaled by a.
func (v LorentzVector) Scale(a float64) LorentzVector {
	return LorentzVector{Px: v.Px * a, Py: v.Py * a, Pz: v.Pz * a, E: v.E * a}
}

// P2 returns the squared spatial momentum px²+py²+pz².
func (v LorentzVector) P2() float64 {
	return v.Px*v.Px + v.Py*v.Py + v.Pz*v.Pz
}

// P returns the spatial momentum magnitude, via gosl/la.VecNorm the same
// way shp.go derives a Jacobian's magnitude from its raw vector.
func (v LorentzVector) P() float64 {
	return la.VecNorm([]float64{v.Px, v.Py, v.Pz})
}

// M2 returns the invariant mass squared E²-P² (may be negative off-shell).
func (v LorentzVector) M2() float64 {
	return v.E*v.E - v.P2()
}

// M returns the invariant mass sqrt(M2), or -sqrt(-M2) when M2 is negative.
func (v LorentzVector) M() float64 {
	m2 := v.M2()
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}
	return math.Sqrt(m2)
}

// Pt returns the transverse momentum.
func (v LorentzVector) Pt() float64 {
	return math.Hypot(v.Px, v.Py)
}

// Theta returns the polar angle in [0, π].
func (v LorentzVector) Theta() float64 {
	p := v.P()
	if p == 0 {
		return 0
	}
	return math.Acos(v.Pz / p)
}

// Phi returns the azimuthal angle in (-π, π].
func (v LorentzVector) Phi() float64 {
	return math.Atan2(v.Py, v.Px)
}

// Eta returns the pseudorapidity.
func (v LorentzVector) Eta() float64 {
	p := v.P()
	if p == v.Pz {
		return math.Inf(1)
	}
	if p == -v.Pz {
		return math.Inf(-1)
	}
	return 0.5 * math.Log((p+v.Pz)/(p-v.Pz))
}

// Particle binds a four-momentum to a signed PDG identifier, per spec §3.
type Particle struct {
	Name string
	P4   LorentzVector
	Type int // signed PDG identifier
}
