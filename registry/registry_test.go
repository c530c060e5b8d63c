package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/registry"
)

func noopFactory(ctx registry.FactoryContext) (module.Module, error) {
	return nil, nil
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := registry.New()
	def := registry.NewModuleDef("Widget").Output("value").Build()
	require.NoError(t, r.Register(def, noopFactory))

	err := r.Register(def, noopFactory)
	assert.Error(t, err)
}

func TestRegisterRejectsNonInternalWithoutFactory(t *testing.T) {
	r := registry.New()
	def := registry.NewModuleDef("Widget").Output("value").Build()
	err := r.Register(def, nil)
	assert.Error(t, err)
}

func TestRegisterAllowsInternalWithoutFactory(t *testing.T) {
	r := registry.New()
	def := registry.NewModuleDef("cuba").Output("ps_points").Internal().Build()
	require.NoError(t, r.Register(def, nil))

	reg, ok := r.Lookup("cuba")
	require.True(t, ok)
	assert.Nil(t, reg.Factory)
	assert.True(t, reg.Def.Internal)
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	r := registry.New()
	_, ok := r.Lookup("missing")
	assert.False(t, ok)
}

func TestBuilderProducesDeclaredSchema(t *testing.T) {
	def := registry.NewModuleDef("Widget").
		Output("value").
		Input("a").
		OptionalInput("b", nil).
		ManyInput("many").
		Attribute("scale", registry.TypeReal).
		OptionalAttribute("offset", registry.TypeInt, config.NewInt(0)).
		Sticky().
		Build()

	assert.Equal(t, "Widget", def.Name)
	assert.True(t, def.Sticky)
	require.Len(t, def.Outputs, 1)
	require.Len(t, def.Inputs, 3)
	require.Len(t, def.Attributes, 2)
	assert.Equal(t, "a", def.Inputs[0].Name)
	assert.True(t, def.Inputs[1].Optional)
	assert.True(t, def.Inputs[2].Many)
	assert.Equal(t, registry.TypeReal, def.Attributes[0].Type)
	assert.True(t, def.Attributes[1].Optional)
}
