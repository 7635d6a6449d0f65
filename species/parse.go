package species

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseComplex parses a single BNGL-style complex string, e.g.
// "A(b!1).B(a!1,c~X!2).C(b!2)", into a Graph. It is deliberately minimal:
// enough grammar to round-trip whatever CanonicalString/Serialize produce,
// not a general BNGL file reader.
//
// Grammar:
//
//	complex    := molecule ( '.' molecule )*
//	molecule   := ident '(' ( component ( ',' component )* )? ')'
//	component  := ident ( '~' ident )? ( '!' ( int | '+' ) )?
func ParseComplex(s string) (Graph, error) {
	p := &complexParser{input: s}
	node, err := p.parseComplex()
	if err != nil {
		return Graph{}, err
	}
	if !p.atEnd() {
		return Graph{}, fmt.Errorf("species: unexpected trailing input %q", p.input[p.pos:])
	}
	return astToGraph(node)
}

type complexParser struct {
	input string
	pos   int
}

func (p *complexParser) atEnd() bool { return p.pos >= len(p.input) }

func (p *complexParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *complexParser) parseComplex() (*astNode, error) {
	list := &astNode{Kind: astList}
	for {
		mol, err := p.parseMolecule()
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, mol)
		if p.peek() != '.' {
			break
		}
		p.pos++
	}
	return list, nil
}

func (p *complexParser) parseMolecule() (*astNode, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, fmt.Errorf("species: parsing molecule name: %w", err)
	}
	if p.peek() != '(' {
		return nil, fmt.Errorf("species: expected '(' after molecule name %q at offset %d", name, p.pos)
	}
	p.pos++

	mol := &astNode{Kind: astMolecule, Str: name}
	if p.peek() == ')' {
		p.pos++
		return mol, nil
	}
	for {
		comp, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		mol.Children = append(mol.Children, comp)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	if p.peek() != ')' {
		return nil, fmt.Errorf("species: expected ')' closing molecule %q at offset %d", name, p.pos)
	}
	p.pos++
	return mol, nil
}

func (p *complexParser) parseComponent() (*astNode, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, fmt.Errorf("species: parsing component name: %w", err)
	}
	comp := &astNode{Kind: astComponent, Str: name, Bond: BondNone}

	if p.peek() == '~' {
		p.pos++
		state, err := p.parseIdent()
		if err != nil {
			return nil, fmt.Errorf("species: parsing state of component %q: %w", name, err)
		}
		comp.HasState = true
		comp.State = state
	}
	if p.peek() == '!' {
		p.pos++
		if p.peek() == '+' {
			p.pos++
			comp.Bond = BondAny
		} else {
			n, err := p.parseInt()
			if err != nil {
				return nil, fmt.Errorf("species: parsing bond of component %q: %w", name, err)
			}
			comp.Bond = n
		}
	}
	return comp, nil
}

func (p *complexParser) parseIdent() (string, error) {
	start := p.pos
	for !p.atEnd() && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *complexParser) parseInt() (int, error) {
	start := p.pos
	for !p.atEnd() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected integer at offset %d", start)
	}
	return strconv.Atoi(p.input[start:p.pos])
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// astToGraph converts a parsed astList of astMolecule nodes into a Graph.
// Bond numbers are taken verbatim from the source text; ParseComplex does
// not assume they are already canonical.
func astToGraph(list *astNode) (Graph, error) {
	if list.Kind != astList {
		return Graph{}, fmt.Errorf("species: internal: astToGraph expects astList, got %v", list.Kind)
	}
	g := Graph{Molecules: make([]MoleculeInstance, len(list.Children))}
	for mi, molNode := range list.Children {
		if molNode.Kind != astMolecule {
			return Graph{}, fmt.Errorf("species: internal: expected astMolecule, got %v", molNode.Kind)
		}
		comps := make([]Component, len(molNode.Children))
		for ci, compNode := range molNode.Children {
			comps[ci] = Component{
				TypeName: compNode.Str,
				HasState: compNode.HasState,
				State:    compNode.State,
				Bond:     compNode.Bond,
			}
		}
		g.Molecules[mi] = MoleculeInstance{TypeName: molNode.Str, Components: comps}
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// FormatBondList renders the sorted bond numbers present in g, used by
// diagnostics that report malformed complexes.
func FormatBondList(g Graph) string {
	bonds := g.BondMap()
	nums := make([]int, 0, len(bonds))
	for b := range bonds {
		nums = append(nums, b)
	}
	for i := 1; i < len(nums); i++ {
		for j := i; j > 0 && nums[j-1] > nums[j]; j-- {
			nums[j-1], nums[j] = nums[j], nums[j-1]
		}
	}
	strs := make([]string, len(nums))
	for i, n := range nums {
		strs[i] = strconv.Itoa(n)
	}
	return strings.Join(strs, ",")
}
