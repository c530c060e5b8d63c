package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internalmods"
	"github.com/momemta/momemta-go/modules/generator"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

// constWidth is a trivial gosl/fun.Func implementation used only to drive
// BreitWignerGenerator in tests, standing in for fun.Cte.
type constWidth float64

func (w constWidth) F(t float64, x []float64) float64 { return float64(w) }

func TestUniformGeneratorMapsUnitIntervalToRange(t *testing.T) {
	p := pool.New()
	ps, err := pool.Put[[]float64](p, inputtag.New(internalmods.Cuba, internalmods.CubaPSPoints))
	require.NoError(t, err)
	ps.Set([]float64{0.25})

	ctx := registry.FactoryContext{
		Name:  "uniform",
		Attrs: config.Table{"min": config.NewReal(10), "max": config.NewReal(20)},
		Pool:  p,
	}
	m, err := generator.UniformGeneratorFactory(ctx)
	require.NoError(t, err)
	_, err = m.Work()
	require.NoError(t, err)

	out, err := pool.Get[float64](p, inputtag.New("uniform", "output"))
	require.NoError(t, err)
	assert.InDelta(t, 12.5, out.Get(), 1e-9)

	jac, err := pool.Get[float64](p, inputtag.New("uniform", "jacobian"))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, jac.Get(), 1e-9)
}

func TestBreitWignerGeneratorIsSymmetricAroundResonance(t *testing.T) {
	p := pool.New()
	ps, err := pool.Put[[]float64](p, inputtag.New(internalmods.Cuba, internalmods.CubaPSPoints))
	require.NoError(t, err)
	ps.Set([]float64{0.5})

	ctx := registry.FactoryContext{
		Name:  "bw",
		Attrs: config.Table{"mass": config.NewReal(91)},
		Pool:  p,
	}
	m, err := generator.BreitWignerGeneratorFactory(constWidth(2.5))(ctx)
	require.NoError(t, err)
	_, err = m.Work()
	require.NoError(t, err)

	out, err := pool.Get[float64](p, inputtag.New("bw", "output"))
	require.NoError(t, err)
	assert.InDelta(t, 91*91, out.Get(), 1e-6)
}

func TestDimensionOffsetSelectsDistinctPhaseSpaceSlots(t *testing.T) {
	p := pool.New()
	ps, err := pool.Put[[]float64](p, inputtag.New(internalmods.Cuba, internalmods.CubaPSPoints))
	require.NoError(t, err)
	ps.Set([]float64{0.0, 1.0})

	first, err := generator.UniformGeneratorFactory(registry.FactoryContext{
		Name:            "g0",
		Attrs:           config.Table{"min": config.NewReal(0), "max": config.NewReal(1)},
		Pool:            p,
		DimensionOffset: 0,
	})
	require.NoError(t, err)
	second, err := generator.UniformGeneratorFactory(registry.FactoryContext{
		Name:            "g1",
		Attrs:           config.Table{"min": config.NewReal(0), "max": config.NewReal(1)},
		Pool:            p,
		DimensionOffset: 1,
	})
	require.NoError(t, err)

	_, err = first.Work()
	require.NoError(t, err)
	_, err = second.Work()
	require.NoError(t, err)

	out0, err := pool.Get[float64](p, inputtag.New("g0", "output"))
	require.NoError(t, err)
	out1, err := pool.Get[float64](p, inputtag.New("g1", "output"))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out0.Get(), 1e-9)
	assert.InDelta(t, 1.0, out1.Get(), 1e-9)
}
