package species

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternerReturnsStableIDForSameComplex(t *testing.T) {
	in := NewInterner()
	a, _ := ParseComplex("A(b!1).B(a!1)")
	b, _ := ParseComplex("B(a!1).A(b!1)")

	id1 := in.Intern(a)
	id2 := in.Intern(b)
	require.Equal(t, id1, id2)
	require.Equal(t, 1, in.Count())
}

func TestInternerDistinguishesDifferentComplexes(t *testing.T) {
	in := NewInterner()
	a, _ := ParseComplex("A(b)")
	b, _ := ParseComplex("A(b~on)")

	id1 := in.Intern(a)
	id2 := in.Intern(b)
	require.NotEqual(t, id1, id2)
	require.Equal(t, 2, in.Count())
}

func TestInternerLookup(t *testing.T) {
	in := NewInterner()
	g, _ := ParseComplex("A(b)")
	id := in.Intern(g)

	rec, ok := in.Lookup(id)
	require.True(t, ok)
	require.Equal(t, id, rec.ID)

	_, ok = in.Lookup(id + 100)
	require.False(t, ok)
}

func TestInternerCleanupReportsDeadSpecies(t *testing.T) {
	in := NewInterner()
	a, _ := ParseComplex("A(b)")
	b, _ := ParseComplex("A(b~on)")
	idA := in.Intern(a)
	idB := in.Intern(b)

	dead := in.Cleanup(func(id ID) bool { return id == idA })
	require.Equal(t, []ID{idB}, dead)
}
