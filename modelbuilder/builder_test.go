package modelbuilder

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/species"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) species.Graph {
	t.Helper()
	g, err := species.ParseComplex(s)
	require.NoError(t, err)
	return g
}

func TestBuilderChaining(t *testing.T) {
	m, err := New().
		WithTau(1e-6).
		WithSeed(42).
		WithParameter("rate", 1.0).
		AddRule(reaction.Rule{
			Name:      "decay",
			Reactants: []reaction.ReactantSlot{{Pattern: mustParse(t, "A(b)")}},
			RateFwd:   1.0,
		}).
		Build()

	require.NoError(t, err)
	require.Equal(t, 1e-6, m.Tau)
	require.Equal(t, uint64(42), m.Seed)
	require.Len(t, m.Rules, 1)

	v, ok := m.Parameters.Get("rate")
	require.True(t, ok)
	require.Equal(t, 1.0, v)
}

func TestBuilderRejectsRuleWithNoReactants(t *testing.T) {
	_, err := New().AddRule(reaction.Rule{Name: "bad"}).Build()
	require.Error(t, err)
}

func TestBuilderRejectsEmptyModel(t *testing.T) {
	_, err := New().Build()
	require.Error(t, err)
}

func TestBuilderGeometryAccess(t *testing.T) {
	b := New()
	obj := b.Geometry().AddUnitCube("box", mgl64.Vec3{0, 0, 0})
	_ = obj
	m, err := b.AddRelease(Release{Species: mustParse(t, "A(b)"), Count: 5}).Build()
	require.NoError(t, err)
	require.Len(t, m.Releases, 1)
	require.Same(t, b.Geometry(), m.Store)
}
