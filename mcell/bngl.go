package mcell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcellsim/mcell/modelbuilder"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/species"
)

// CompartmentDef is one parsed "begin compartments" entry: name,
// dimensionality (2 for a surface, 3 for a volume), volume/area, and an
// optional enclosing parent compartment.
type CompartmentDef struct {
	Name   string
	Dim    int
	Volume float64
	Parent string
}

// BNGLFragment is the result of parsing the four block kinds §6 names
// (parameters, molecule types, compartments, reaction rules). It is
// deliberately a small subset of full BNGL grammar, sufficient to
// round-trip a model built from those four blocks; a full grammar
// (observables, seed species, functions) remains out of scope.
type BNGLFragment struct {
	Parameters    map[string]float64
	MoleculeTypes []string
	Compartments  []CompartmentDef
	Rules         []reaction.Rule
}

// ParseBNGLFragment reads text containing any of the four
// "begin X ... end X" blocks, in any order, and returns the parsed
// fragment.
func ParseBNGLFragment(text string) (*BNGLFragment, error) {
	frag := &BNGLFragment{Parameters: make(map[string]float64)}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(stripComment(lines[i]))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "begin" {
			return nil, valueErrorf("bngl: expected a 'begin <block>' line, got %q", line)
		}
		block := strings.Join(fields[1:], " ")
		end := "end " + block
		j := i + 1
		var body []string
		for j < len(lines) {
			trimmed := strings.TrimSpace(stripComment(lines[j]))
			if trimmed == end {
				break
			}
			if trimmed != "" {
				body = append(body, trimmed)
			}
			j++
		}
		if j == len(lines) {
			return nil, valueErrorf("bngl: unterminated block %q, expected %q", block, end)
		}

		var err error
		switch block {
		case "parameters":
			err = parseParametersBlock(body, frag)
		case "molecule types":
			err = parseMoleculeTypesBlock(body, frag)
		case "compartments":
			err = parseCompartmentsBlock(body, frag)
		case "reaction rules":
			err = parseReactionRulesBlock(body, frag)
		default:
			err = valueErrorf("bngl: unknown block kind %q", block)
		}
		if err != nil {
			return nil, err
		}
		i = j
	}
	return frag, nil
}

// stripComment removes a trailing "#..." BNGL-style comment.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseParametersBlock(body []string, frag *BNGLFragment) error {
	for _, line := range body {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return valueErrorf("bngl: parameter line %q must be 'name value'", line)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return valueErrorf("bngl: parameter %q has non-numeric value %q", fields[0], fields[1])
		}
		frag.Parameters[fields[0]] = v
	}
	return nil
}

func parseMoleculeTypesBlock(body []string, frag *BNGLFragment) error {
	frag.MoleculeTypes = append(frag.MoleculeTypes, body...)
	return nil
}

func parseCompartmentsBlock(body []string, frag *BNGLFragment) error {
	for _, line := range body {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return valueErrorf("bngl: compartment line %q must be 'name dim volume [parent]'", line)
		}
		dim, err := strconv.Atoi(fields[1])
		if err != nil || (dim != 2 && dim != 3) {
			return valueErrorf("bngl: compartment %q dimensionality must be 2 or 3", fields[0])
		}
		vol, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return valueErrorf("bngl: compartment %q has non-numeric volume %q", fields[0], fields[2])
		}
		def := CompartmentDef{Name: fields[0], Dim: dim, Volume: vol}
		if len(fields) >= 4 {
			def.Parent = fields[3]
		}
		frag.Compartments = append(frag.Compartments, def)
	}
	return nil
}

// parseReactionRulesBlock parses lines of the form:
//
//	name: reactant (+ reactant)* -> product (+ product)*, rate
//	name: reactant (+ reactant)* <-> product (+ product)*, rateFwd, rateBack
//
// A reactant/product may be prefixed with "@IN " / "@OUT " / "@Name " to
// tag its compartment; §6 names @IN/@OUT as reactant-only, enforced here.
func parseReactionRulesBlock(body []string, frag *BNGLFragment) error {
	for _, line := range body {
		rule, err := parseRuleLine(line, frag.Parameters)
		if err != nil {
			return err
		}
		frag.Rules = append(frag.Rules, rule)
	}
	return nil
}

// resolveRate interprets a rate token as a float literal, or failing
// that as a parameter name already defined by an earlier "parameters"
// block — BNGL rules commonly reference a named rate constant rather
// than repeating a literal.
func resolveRate(token string, params map[string]float64) (float64, error) {
	token = strings.TrimSpace(token)
	if v, err := strconv.ParseFloat(token, 64); err == nil {
		return v, nil
	}
	if v, ok := params[token]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("rate %q is neither a number nor a defined parameter", token)
}

func parseRuleLine(line string, params map[string]float64) (reaction.Rule, error) {
	name := ""
	rest := line
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		name = strings.TrimSpace(line[:idx])
		rest = line[idx+1:]
	}

	reversible := false
	arrowIdx := strings.Index(rest, "<->")
	arrowLen := 3
	if arrowIdx < 0 {
		arrowIdx = strings.Index(rest, "->")
		arrowLen = 2
		if arrowIdx < 0 {
			return reaction.Rule{}, valueErrorf("bngl: rule %q has no -> or <-> arrow", line)
		}
	} else {
		reversible = true
	}

	lhs := strings.TrimSpace(rest[:arrowIdx])
	rhsAndRates := strings.TrimSpace(rest[arrowIdx+arrowLen:])

	rhs, rateFwdTok, rateBackTok, err := splitProductsAndRates(rhsAndRates, reversible)
	if err != nil {
		return reaction.Rule{}, fmt.Errorf("bngl: rule %q: %w", name, err)
	}
	rateFwd, err := resolveRate(rateFwdTok, params)
	if err != nil {
		return reaction.Rule{}, fmt.Errorf("bngl: rule %q: %w", name, err)
	}
	var rateBack float64
	if reversible {
		rateBack, err = resolveRate(rateBackTok, params)
		if err != nil {
			return reaction.Rule{}, fmt.Errorf("bngl: rule %q: %w", name, err)
		}
	}

	reactants, err := parseSlotList(lhs)
	if err != nil {
		return reaction.Rule{}, fmt.Errorf("bngl: rule %q reactants: %w", name, err)
	}
	products, err := parseSlotList(rhs)
	if err != nil {
		return reaction.Rule{}, fmt.Errorf("bngl: rule %q products: %w", name, err)
	}
	for _, p := range products {
		if p.Compartment == "@IN" || p.Compartment == "@OUT" {
			return reaction.Rule{}, valueErrorf("bngl: rule %q: @IN/@OUT is reactant-only", name)
		}
	}

	return reaction.Rule{
		Name:       name,
		Reactants:  reactants,
		Products:   products,
		RateFwd:    rateFwd,
		RateBack:   rateBack,
		Reversible: reversible,
	}, nil
}

func splitProductsAndRates(s string, reversible bool) (products, rateFwdTok, rateBackTok string, err error) {
	parts := strings.Split(s, ",")
	if reversible {
		if len(parts) != 3 {
			return "", "", "", fmt.Errorf("reversible rule needs 'products, rateFwd, rateBack', got %q", s)
		}
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
	}
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("irreversible rule needs 'products, rate', got %q", s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), "", nil
}

func parseSlotList(s string) ([]reaction.ReactantSlot, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil, nil
	}
	terms := strings.Split(s, "+")
	slots := make([]reaction.ReactantSlot, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		compartment := ""
		if strings.HasPrefix(term, "@") {
			sep := strings.IndexByte(term, ' ')
			if sep < 0 {
				return nil, fmt.Errorf("compartment tag %q has no pattern after it", term)
			}
			compartment = term[:sep]
			term = strings.TrimSpace(term[sep+1:])
		}
		g, err := species.ParseComplex(term)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", term, err)
		}
		slots = append(slots, reaction.ReactantSlot{Pattern: g, Compartment: compartment})
	}
	return slots, nil
}

// ApplyTo wires a parsed fragment's parameters and rules into a Builder
// in progress; compartments and molecule types are recorded for callers
// that want them but have no modelbuilder field of their own yet (no
// SPEC_FULL.md component currently consumes compartment volumes).
func (f *BNGLFragment) ApplyTo(b *modelbuilder.Builder) *modelbuilder.Builder {
	for name, v := range f.Parameters {
		b = b.WithParameter(name, v)
	}
	for _, r := range f.Rules {
		b = b.AddRule(r)
	}
	return b
}
