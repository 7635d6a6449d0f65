package species

// astKind tags the single intermediate AST node type used while parsing a
// canonical complex string. The original MCell parser devoted a class per
// node kind (Id, Double, Int, String, List, Separator, Component,
// Molecule, RxnRule); here that hierarchy collapses into one tagged union
// dispatched by Kind, per the engine's tagged-union AST design note.
type astKind int

const (
	astID astKind = iota
	astInt
	astString
	astList
	astComponent
	astMolecule
)

// astNode is the single tagged-union node type for the complex-string
// parser's intermediate representation.
type astNode struct {
	Kind     astKind
	Str      string     // astID, astString
	Int      int        // astInt
	Children []*astNode // astList, astComponent, astMolecule
	State    string     // astComponent: state suffix, "" if absent
	HasState bool
	Bond     int // astComponent: BondNone/BondAny/specific
}
