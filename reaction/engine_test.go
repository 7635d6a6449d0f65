package reaction

import (
	"testing"

	"github.com/mcellsim/mcell/species"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) species.Graph {
	t.Helper()
	g, err := species.ParseComplex(s)
	require.NoError(t, err)
	return g
}

func TestUnimolecularDecayClass(t *testing.T) {
	in := species.NewInterner()
	a := in.Intern(mustParse(t, "A(b)"))

	rules := []Rule{
		{Name: "decay", Reactants: []ReactantSlot{{Pattern: mustParse(t, "A(b)")}}, RateFwd: 1.5},
	}
	eng := NewEngine(in, rules)

	class, ok := eng.Unimolecular(a, "")
	require.True(t, ok)
	require.Len(t, class.Pathways, 1)
	require.InDelta(t, 1.5, class.Total, 1e-12)
}

func TestUnimolecularNoMatchReturnsFalse(t *testing.T) {
	in := species.NewInterner()
	a := in.Intern(mustParse(t, "A(b~off)"))

	rules := []Rule{
		{Name: "onlyOn", Reactants: []ReactantSlot{{Pattern: mustParse(t, "A(b~on)")}}, RateFwd: 1},
	}
	eng := NewEngine(in, rules)

	_, ok := eng.Unimolecular(a, "")
	require.False(t, ok)
}

func TestBimolecularClassAndCaching(t *testing.T) {
	in := species.NewInterner()
	a := in.Intern(mustParse(t, "A(b)"))
	b := in.Intern(mustParse(t, "B(a)"))

	rules := []Rule{
		{
			Name: "bind",
			Reactants: []ReactantSlot{
				{Pattern: mustParse(t, "A(b)")},
				{Pattern: mustParse(t, "B(a)")},
			},
			RateFwd: 2.0,
		},
	}
	eng := NewEngine(in, rules)

	class1, ok := eng.Bimolecular(a, b, "")
	require.True(t, ok)
	require.InDelta(t, 2.0, class1.Total, 1e-12)

	class2, ok := eng.Bimolecular(a, b, "")
	require.True(t, ok)
	require.Same(t, class1, class2, "second lookup must hit the cache, not rebuild")
}

func TestClassSelectPicksPathwayInRange(t *testing.T) {
	c := &Class{
		Pathways: []Pathway{
			{Rule: &Rule{Name: "r1"}, Rate: 1.0},
			{Rule: &Rule{Name: "r2"}, Rate: 3.0},
		},
		Total: 4.0,
	}
	p, ok := c.Select(0.5)
	require.True(t, ok)
	require.Equal(t, "r1", p.Rule.Name)

	p, ok = c.Select(2.0)
	require.True(t, ok)
	require.Equal(t, "r2", p.Rule.Name)

	_, ok = c.Select(4.0)
	require.False(t, ok, "draw outside [0, Total) must be rejected")
}

func TestEvictSpeciesClearsOnlyAffectedClasses(t *testing.T) {
	in := species.NewInterner()
	a := in.Intern(mustParse(t, "A(b)"))
	b := in.Intern(mustParse(t, "B(a)"))

	rules := []Rule{
		{Name: "decayA", Reactants: []ReactantSlot{{Pattern: mustParse(t, "A(b)")}}, RateFwd: 1},
		{Name: "decayB", Reactants: []ReactantSlot{{Pattern: mustParse(t, "B(a)")}}, RateFwd: 1},
	}
	eng := NewEngine(in, rules)

	classA, _ := eng.Unimolecular(a, "")
	classB, _ := eng.Unimolecular(b, "")
	require.NotNil(t, classA)
	require.NotNil(t, classB)

	eng.EvictSpecies(a)
	require.NotContains(t, eng.uni, uniKey{a, ""})
	require.Contains(t, eng.uni, uniKey{b, ""}, "eviction must not touch unrelated species")

	classA2, ok := eng.Unimolecular(a, "")
	require.True(t, ok)
	require.InDelta(t, 1.0, classA2.Total, 1e-12)
}

func TestReactantClassPoolDeduplicates(t *testing.T) {
	pool := NewPool()
	rc1 := pool.Intern(0b01, 0b00, false)
	rc2 := pool.Intern(0b01, 0b00, false)
	rc3 := pool.Intern(0b11, 0b00, false)

	require.Same(t, rc1, rc2)
	require.NotSame(t, rc1, rc3)
	require.Equal(t, 2, pool.Count())
	require.Contains(t, pool.ClassesReactingOnRule(0), rc1.ID)
	require.Contains(t, pool.ClassesReactingOnRule(1), rc3.ID)
}
