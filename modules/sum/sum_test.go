package sum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/modules/sum"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

func TestSummerResetsOnBeginLoop(t *testing.T) {
	p := pool.New()
	term, err := pool.Put[float64](p, inputtag.New("src", "term"))
	require.NoError(t, err)

	ctx := registry.FactoryContext{
		Name:  "total",
		Attrs: config.Table{"input": mustTag("src::term")},
		Pool:  p,
	}
	m, err := sum.SummerFactory(ctx)
	require.NoError(t, err)

	term.Set(2)
	_, err = m.Work()
	require.NoError(t, err)
	term.Set(3)
	_, err = m.Work()
	require.NoError(t, err)

	out, err := pool.Get[float64](p, inputtag.New("total", "output"))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, out.Get(), 1e-9)

	require.NoError(t, module.CallBeginLoop(m))
	term.Set(7)
	_, err = m.Work()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, out.Get(), 1e-9)
}

func TestBinnedHistogramBucketsAndTracksOverflow(t *testing.T) {
	p := pool.New()
	input, err := pool.Put[float64](p, inputtag.New("src", "value"))
	require.NoError(t, err)

	ctx := registry.FactoryContext{
		Name: "hist",
		Attrs: config.Table{
			"input": mustTag("src::value"),
			"bins":  config.NewInt(2),
			"low":   config.NewReal(0),
			"high":  config.NewReal(10),
		},
		Pool: p,
	}
	m, err := sum.BinnedHistogramFactory(ctx)
	require.NoError(t, err)

	hist, ok := m.(interface{ Bins() []float64 })
	require.True(t, ok)

	for _, v := range []float64{-1, 2, 6, 11} {
		input.Set(v)
		_, err := m.Work()
		require.NoError(t, err)
	}

	bins := hist.Bins()
	require.Len(t, bins, 2)
	assert.InDelta(t, 1.0, bins[0], 1e-9)
	assert.InDelta(t, 1.0, bins[1], 1e-9)
}

func mustTag(s string) config.Value {
	v, err := config.NewInputTagLiteral(s)
	if err != nil {
		panic(err)
	}
	return v
}
