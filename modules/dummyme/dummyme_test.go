package dummyme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/modules/dummyme"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

func TestDummyMatrixElementDefaultsToOne(t *testing.T) {
	p := pool.New()
	particle, err := pool.Put[lorentzvector.Particle](p, inputtag.New("src", "particle"))
	require.NoError(t, err)
	particle.Set(lorentzvector.Particle{})

	ctx := registry.FactoryContext{
		Name: "me",
		Attrs: config.Table{
			"particles": config.NewList(mustTag("src::particle")),
		},
		Pool: p,
	}
	m, err := dummyme.DummyMatrixElementFactory(ctx)
	require.NoError(t, err)

	status, err := m.Work()
	require.NoError(t, err)
	assert.Equal(t, module.Ok, status)

	out, err := pool.Get[float64](p, inputtag.New("me", "value"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out.Get(), 1e-9)
}

func TestDummyMatrixElementHonoursFixedValue(t *testing.T) {
	p := pool.New()
	particle, err := pool.Put[lorentzvector.Particle](p, inputtag.New("src", "particle"))
	require.NoError(t, err)
	particle.Set(lorentzvector.Particle{})

	ctx := registry.FactoryContext{
		Name: "me",
		Attrs: config.Table{
			"particles": config.NewList(mustTag("src::particle")),
			"value":     config.NewReal(42),
		},
		Pool: p,
	}
	m, err := dummyme.DummyMatrixElementFactory(ctx)
	require.NoError(t, err)

	_, err = m.Work()
	require.NoError(t, err)

	out, err := pool.Get[float64](p, inputtag.New("me", "value"))
	require.NoError(t, err)
	assert.InDelta(t, 42.0, out.Get(), 1e-9)
}

func mustTag(s string) config.Value {
	v, err := config.NewInputTagLiteral(s)
	if err != nil {
		panic(err)
	}
	return v
}
