package species

import (
	"fmt"
	"strings"
)

// Serialize renders a graph (assumed already canonicalized, but works on
// any graph) as a BNGL-style string: molecules joined by '.', each
// molecule "Type(comp,comp,...)", each component "Type[~state][!bond]".
func Serialize(g Graph) string {
	parts := make([]string, len(g.Molecules))
	for i, m := range g.Molecules {
		parts[i] = serializeMolecule(m)
	}
	return strings.Join(parts, ".")
}

func serializeMolecule(m MoleculeInstance) string {
	comps := make([]string, len(m.Components))
	for i, c := range m.Components {
		comps[i] = serializeComponent(c)
	}
	return fmt.Sprintf("%s(%s)", m.TypeName, strings.Join(comps, ","))
}

func serializeComponent(c Component) string {
	s := c.TypeName
	if c.HasState {
		s += "~" + c.State
	}
	switch {
	case c.Bond == BondAny:
		s += "!+"
	case c.Bond > BondNone:
		s += fmt.Sprintf("!%d", c.Bond)
	}
	return s
}
