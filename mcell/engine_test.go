package mcell

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/diffuse"
	"github.com/mcellsim/mcell/modelbuilder"
	"github.com/mcellsim/mcell/partition"
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

func newTestModel(t *testing.T) *modelbuilder.Builder {
	t.Helper()
	b := modelbuilder.New().WithTau(1e-6).WithSeed(7)
	b.Geometry().AddUnitCube("arena", mgl64.Vec3{0, 0, 0})
	return b
}

// TestBuildEngineSimpleDecay exercises scenario 2: a single unimolecular
// rule A(b) -> (no products) must eventually remove every A molecule
// without the caller ever rewiring the scheduler by hand (§9 lazy
// cancellation).
func TestBuildEngineSimpleDecay(t *testing.T) {
	b := newTestModel(t)
	b.AddRule(reaction.Rule{
		Name:      "decay",
		Reactants: []reaction.ReactantSlot{{Pattern: mustParse(t, "A(b)")}},
		RateFwd:   1e6,
	})
	b.AddRelease(modelbuilder.Release{Species: mustParse(t, "A(b)"), Count: 5})

	model, err := b.Build()
	require.NoError(t, err)

	eng, err := BuildEngine(model)
	require.NoError(t, err)
	require.Equal(t, 5, eng.LiveCount())

	ctx := context.Background()
	for i := 0; i < 200000 && eng.LiveCount() > 0; i++ {
		_, err := eng.Step(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, 0, eng.LiveCount())
}

// TestApplyPathwayBimolecular unit-tests applyPathway in isolation: given
// an already-resolved bimolecular pathway, it must retire both reactants
// and intern the rule's products. TestEngineBimolecularReactsUnderRealDiffusion
// below exercises the real diffusion/collision path that produces such a
// pathway in the first place.
func TestApplyPathwayBimolecular(t *testing.T) {
	b := newTestModel(t)
	b.AddRule(reaction.Rule{
		Name: "bind",
		Reactants: []reaction.ReactantSlot{
			{Pattern: mustParse(t, "A(b)")},
			{Pattern: mustParse(t, "B(a)")},
		},
		Products: []reaction.ReactantSlot{
			{Pattern: mustParse(t, "C(x)")},
		},
		RateFwd: 1.0,
	})
	b.AddRelease(modelbuilder.Release{Species: mustParse(t, "A(b)"), Count: 1})
	b.AddRelease(modelbuilder.Release{Species: mustParse(t, "B(a)"), Count: 1})

	model, err := b.Build()
	require.NoError(t, err)

	eng, err := BuildEngine(model)
	require.NoError(t, err)
	require.Equal(t, 2, eng.LiveCount())

	var selfID, colliderID partition.MoleculeID
	first := true
	for id := range eng.molecules {
		if first {
			selfID = id
			first = false
		} else {
			colliderID = id
		}
	}
	self := eng.molecules[selfID]
	rule := &model.Rules[0]

	eng.applyPathway(self, diffuse.StepResult{
		Outcome:  diffuse.OutcomeReacted,
		Pathway:  &reaction.Pathway{Rule: rule, Rate: rule.RateFwd},
		Collider: colliderID,
	})

	require.True(t, eng.molecules[selfID].Defunct)
	require.True(t, eng.molecules[colliderID].Defunct)
	require.Equal(t, 1, eng.LiveCount())

	cPattern := mustParse(t, "C(x)")
	require.Equal(t, 1, eng.Observe(cPattern))
}

// TestEngineBimolecularReactsUnderRealDiffusion exercises scenario 3 end to
// end: real Gaussian displacement, wall ray-tracing and collision sampling
// must actually drive an A and a B molecule together and produce a
// reaction, with no hand-built diffuse.StepResult standing in for it.
func TestEngineBimolecularReactsUnderRealDiffusion(t *testing.T) {
	b := newTestModel(t)
	aPattern := mustParse(t, "A(b)")
	bPattern := mustParse(t, "B(a)")
	b.WithParameter("D_"+species.CanonicalString(aPattern), 1e5)
	b.WithParameter("D_"+species.CanonicalString(bPattern), 1e5)
	b.AddRule(reaction.Rule{
		Name: "bind",
		Reactants: []reaction.ReactantSlot{
			{Pattern: aPattern},
			{Pattern: bPattern},
		},
		Products: []reaction.ReactantSlot{
			{Pattern: mustParse(t, "C(x)")},
		},
		RateFwd: 1.0,
	})
	b.AddRelease(modelbuilder.Release{Species: aPattern, Count: 25})
	b.AddRelease(modelbuilder.Release{Species: bPattern, Count: 25})

	model, err := b.Build()
	require.NoError(t, err)

	eng, err := BuildEngine(model)
	require.NoError(t, err)
	require.Equal(t, 50, eng.LiveCount())

	ctx := context.Background()
	totalReacted := 0
	for i := 0; i < 5000 && totalReacted == 0; i++ {
		report, err := eng.Step(ctx)
		require.NoError(t, err)
		totalReacted += report.Reacted
	}

	require.Greater(t, totalReacted, 0, "real diffusion/collision loop never produced a bimolecular reaction")
	require.Greater(t, eng.Observe(mustParse(t, "C(x)")), 0)
}

// TestEngineSpeciesCleanup exercises scenario 6: once every molecule of a
// species is gone, the interner's Cleanup reports it as a candidate for
// reaction-cache eviction.
func TestEngineSpeciesCleanup(t *testing.T) {
	b := newTestModel(t)
	b.AddRule(reaction.Rule{
		Name:      "decay",
		Reactants: []reaction.ReactantSlot{{Pattern: mustParse(t, "A(b)")}},
		RateFwd:   1.0,
	})
	b.AddRelease(modelbuilder.Release{Species: mustParse(t, "A(b)"), Count: 1})

	model, err := b.Build()
	require.NoError(t, err)

	eng, err := BuildEngine(model)
	require.NoError(t, err)

	var id partition.MoleculeID
	for molID := range eng.molecules {
		id = molID
	}
	sp := eng.molecules[id].Species
	eng.markDefunct(id)

	dead := eng.interner.Cleanup(func(candidate species.ID) bool {
		for _, m := range eng.molecules {
			if m.Species == candidate && !m.Defunct {
				return true
			}
		}
		return false
	})
	require.Contains(t, dead, sp)
}
