package looper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/modules/looper"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

func TestPermutatorWalksEveryOrderingThenAborts(t *testing.T) {
	p := pool.New()
	a, err := pool.Put[lorentzvector.Particle](p, inputtag.New("a", "particle"))
	require.NoError(t, err)
	b, err := pool.Put[lorentzvector.Particle](p, inputtag.New("b", "particle"))
	require.NoError(t, err)
	a.Set(lorentzvector.Particle{Name: "a"})
	b.Set(lorentzvector.Particle{Name: "b"})

	ctx := registry.FactoryContext{
		Name:  "perm",
		Attrs: config.Table{"inputs": config.NewList(mustTag("a::particle"), mustTag("b::particle"))},
		Pool:  p,
	}
	m, err := looper.PermutatorFactory(ctx)
	require.NoError(t, err)

	out, err := pool.Get[[]lorentzvector.Particle](p, inputtag.New("perm", "output"))
	require.NoError(t, err)

	status, err := m.Work()
	require.NoError(t, err)
	assert.Equal(t, module.Ok, status)
	assert.Equal(t, []string{"a", "b"}, names(out.Get()))

	status, err = m.Work()
	require.NoError(t, err)
	assert.Equal(t, module.Ok, status)
	assert.Equal(t, []string{"b", "a"}, names(out.Get()))

	status, err = m.Work()
	require.NoError(t, err)
	assert.Equal(t, module.AbortLoop, status)
}

func names(particles []lorentzvector.Particle) []string {
	out := make([]string, len(particles))
	for i, p := range particles {
		out[i] = p.Name
	}
	return out
}

func TestLooperRunsSubPathUntilAbortLoop(t *testing.T) {
	p := pool.New()
	a, err := pool.Put[lorentzvector.Particle](p, inputtag.New("a", "particle"))
	require.NoError(t, err)
	b, err := pool.Put[lorentzvector.Particle](p, inputtag.New("b", "particle"))
	require.NoError(t, err)
	a.Set(lorentzvector.Particle{Name: "a"})
	b.Set(lorentzvector.Particle{Name: "b"})

	permCtx := registry.FactoryContext{
		Name:  "perm",
		Attrs: config.Table{"inputs": config.NewList(mustTag("a::particle"), mustTag("b::particle"))},
		Pool:  p,
	}
	perm, err := looper.PermutatorFactory(permCtx)
	require.NoError(t, err)

	visits := 0
	counter := &countingModule{visit: func() { visits++ }}

	looperCtx := registry.FactoryContext{
		Name:  "loop",
		Attrs: config.Table{},
		Pool:  p,
		Paths: map[string][]module.Module{"path": {perm, counter}},
	}
	l, err := looper.LooperFactory(looperCtx)
	require.NoError(t, err)

	status, err := l.Work()
	require.NoError(t, err)
	assert.Equal(t, module.Ok, status)
	assert.Equal(t, 2, visits)
}

type countingModule struct{ visit func() }

func (m *countingModule) Work() (module.Status, error) {
	m.visit()
	return module.Ok, nil
}

func mustTag(s string) config.Value {
	v, err := config.NewInputTagLiteral(s)
	if err != nil {
		panic(err)
	}
	return v
}
