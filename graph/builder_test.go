package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/graph"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/internalmods"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

// constModule always returns a fixed float64 under output "value" and
// never consumes anything — the simplest possible producer for graph
// tests.
type constModule struct {
	out *pool.Handle[float64]
	val float64
}

func (m *constModule) Work() (module.Status, error) {
	m.out.Set(m.val)
	return module.Ok, nil
}

func constFactory(val float64) registry.Factory {
	return func(ctx registry.FactoryContext) (module.Module, error) {
		h, err := pool.Put[float64](ctx.Pool, inputtag.New(ctx.Name, "value"))
		if err != nil {
			return nil, err
		}
		return &constModule{out: h, val: val}, nil
	}
}

func constDef(name string) registry.ModuleDef {
	return registry.NewModuleDef(name).Output("value").Build()
}

// sumModule reads a required InputTag input "a" and republishes it under
// output "value", unchanged — a trivial pass-through consumer/producer.
type sumModule struct {
	in  *pool.Handle[float64]
	out *pool.Handle[float64]
}

func (m *sumModule) Work() (module.Status, error) {
	m.out.Set(m.in.Get())
	return module.Ok, nil
}

func sumFactory() registry.Factory {
	return func(ctx registry.FactoryContext) (module.Module, error) {
		tag, err := ctx.Attrs.GetInputTag("a")
		if err != nil {
			return nil, err
		}
		in, err := pool.Get[float64](ctx.Pool, tag)
		if err != nil {
			return nil, err
		}
		out, err := pool.Put[float64](ctx.Pool, inputtag.New(ctx.Name, "value"))
		if err != nil {
			return nil, err
		}
		return &sumModule{in: in, out: out}, nil
	}
}

func sumDef(name string) registry.ModuleDef {
	return registry.NewModuleDef(name).Output("value").Input("a").Build()
}

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, internalmods.Register(r))
	return r
}

func docWith(parameters config.Table, modules []config.ModuleInstantiation, integrand []inputtag.InputTag) *config.Document {
	if parameters == nil {
		parameters = config.Table{}
	}
	return &config.Document{Parameters: parameters, Modules: modules, Integrand: integrand}
}

func TestBuildSimpleChainOrdersTopologically(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(constDef("source"), constFactory(3.5)))
	require.NoError(t, r.Register(sumDef("relay"), sumFactory()))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "source", Name: "source"},
		{Type: "relay", Name: "relay", Attrs: config.Table{"a": mustTag("source::value")}},
	}, []inputtag.InputTag{inputtag.New("relay", "value")})

	plan, err := graph.NewBuilder(r, nil).Build(doc)
	require.NoError(t, err)
	require.Len(t, plan.Main, 2)
	assert.Equal(t, "source", plan.Main[0].Name)
	assert.Equal(t, "relay", plan.Main[1].Name)

	out, err := plan.Main[0].Instance.Work()
	require.NoError(t, err)
	assert.Equal(t, module.Ok, out)
	_, err = plan.Main[1].Instance.Work()
	require.NoError(t, err)
	assert.Equal(t, 3.5, plan.IntegrandHandles[0].Get())
}

// impostorFactory builds a module that republishes the internal cuba
// pseudo-module's ps_points output under its own name, so instantiating it
// *as* "cuba" collides with the seeded internal producer index.
func impostorFactory() registry.Factory {
	return func(ctx registry.FactoryContext) (module.Module, error) {
		h, err := pool.Put[[]float64](ctx.Pool, inputtag.New(ctx.Name, internalmods.CubaPSPoints))
		if err != nil {
			return nil, err
		}
		return &vectorConstModule{out: h}, nil
	}
}

type vectorConstModule struct{ out *pool.Handle[[]float64] }

func (m *vectorConstModule) Work() (module.Status, error) {
	m.out.Set(nil)
	return module.Ok, nil
}

func TestBuildRejectsDuplicateProducer(t *testing.T) {
	r := newTestRegistry(t)
	impostorDef := registry.NewModuleDef("impostor").Output(internalmods.CubaPSPoints).Build()
	require.NoError(t, r.Register(impostorDef, impostorFactory()))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "impostor", Name: internalmods.Cuba},
	}, nil)

	_, err := graph.NewBuilder(r, nil).Build(doc)
	require.Error(t, err)
	var gerr *merr.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, merr.DuplicateProducer, gerr.Kind)
}

func TestBuildRejectsUnknownProducer(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(sumDef("relay"), sumFactory()))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "relay", Name: "relay", Attrs: config.Table{"a": mustTag("missing::value")}},
	}, []inputtag.InputTag{inputtag.New("relay", "value")})

	_, err := graph.NewBuilder(r, nil).Build(doc)
	require.Error(t, err)
	var gerr *merr.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, merr.UnknownProducer, gerr.Kind)
}

func TestBuildDetectsCycle(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(sumDef("m1"), sumFactory()))
	require.NoError(t, r.Register(sumDef("m2"), sumFactory()))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "m1", Name: "m1", Attrs: config.Table{"a": mustTag("m2::value")}},
		{Type: "m2", Name: "m2", Attrs: config.Table{"a": mustTag("m1::value")}},
	}, []inputtag.InputTag{inputtag.New("m1", "value")})

	_, err := graph.NewBuilder(r, nil).Build(doc)
	require.Error(t, err)
	var gerr *merr.GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, merr.CyclicGraph, gerr.Kind)
}

func TestBuildPrunesUnreachableNonStickyModules(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(constDef("used"), constFactory(1)))
	require.NoError(t, r.Register(constDef("unused"), constFactory(2)))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "used", Name: "used"},
		{Type: "unused", Name: "unused"},
	}, []inputtag.InputTag{inputtag.New("used", "value")})

	plan, err := graph.NewBuilder(r, nil).Build(doc)
	require.NoError(t, err)
	require.Len(t, plan.Main, 1)
	assert.Equal(t, "used", plan.Main[0].Name)
}

func TestBuildKeepsStickyModulesEvenUnconsumed(t *testing.T) {
	r := newTestRegistry(t)
	stickyDef := registry.NewModuleDef("leaf").Output("value").Sticky().Build()
	require.NoError(t, r.Register(stickyDef, constFactory(9)))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "leaf", Name: "leaf"},
	}, nil)

	plan, err := graph.NewBuilder(r, nil).Build(doc)
	require.NoError(t, err)
	require.Len(t, plan.Main, 1)
	assert.Equal(t, "leaf", plan.Main[0].Name)
}

func TestBuildRejectsIndexedTagAgainstScalarProducer(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(constDef("source"), constFactory(1)))
	require.NoError(t, r.Register(sumDef("relay"), sumFactory()))

	doc := docWith(nil, []config.ModuleInstantiation{
		{Type: "source", Name: "source"},
		{Type: "relay", Name: "relay", Attrs: config.Table{"a": mustTag("source::value/3")}},
	}, []inputtag.InputTag{inputtag.New("relay", "value")})

	_, err := graph.NewBuilder(r, nil).Build(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, pool.ErrIndexedTagForScalar)
}

func mustTag(s string) config.Value {
	v, err := config.NewInputTagLiteral(s)
	if err != nil {
		panic(err)
	}
	return v
}
