package lorentzvector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddCommutative(t *testing.T) {
	a := New(1, 2, 3, 10)
	b := New(-4, 5, 0.5, 7)
	assert.Equal(t, a.Add(b), b.Add(a))
}

func TestMassOnShell(t *testing.T) {
	v := New(0, 0, 0, 125.0)
	assert.InDelta(t, 125.0, v.M(), 1e-9)
}

func TestDerivedQuantities(t *testing.T) {
	v := New(3, 4, 0, 10)
	assert.InDelta(t, 5.0, v.Pt(), 1e-9)
	assert.InDelta(t, 5.0, v.P(), 1e-9)
	assert.InDelta(t, 0, v.Eta(), 1e-9)
}
