// Package modelbuilder provides a fluent, chainable API for assembling a
// model before building the simulation engine, in the same mutable-
// pointer-receiver style as the teacher's application builder
// (App/AppBuilder: New... returns a *T, and each configuration method
// mutates and returns the same *T for chaining).
package modelbuilder

import (
	"fmt"

	"github.com/mcellsim/mcell/config"
	"github.com/mcellsim/mcell/geom"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/species"
)

// Release describes an initial placement of molecules of one species,
// either scattered through an object's volume or onto its surface.
type Release struct {
	Species     species.Graph
	Count       int
	Object      geom.ObjectId
	OnSurface   bool
	Compartment string
}

// Observable names a pattern the engine should periodically count
// matches of and report.
type Observable struct {
	Name    string
	Pattern species.Graph
}

// SurfaceClassDef is a named surface class's compiled rule set: which
// species patterns invoke which wall-hit behaviour, and the fallback
// behaviour for species none of its rules name.
type SurfaceClassDef struct {
	Name    string
	Rules   []reaction.SurfaceClassRule
	Default reaction.SurfaceBehavior
}

// Model is the fully assembled, not-yet-built description of a
// simulation: geometry, rules, releases, and run parameters.
type Model struct {
	Store          *geom.Store
	Rules          []reaction.Rule
	Releases       []Release
	Observables    []Observable
	SurfaceClasses []SurfaceClassDef
	Parameters     *config.Parameters
	Notify         config.Notifications

	Tau        float64 // base simulation timestep
	TargetStep float64 // target per-event displacement used to derive per-species timesteps
	Seed       uint64
}

// Builder assembles a Model via chained configuration calls.
type Builder struct {
	model *Model
	errs  []error
}

// New returns a Builder seeded with an empty geometry store and default
// notification settings.
func New() *Builder {
	return &Builder{
		model: &Model{
			Store:      geom.NewStore(),
			Parameters: config.NewParameters(),
			Notify:     config.DefaultNotifications(),
			Tau:        1e-6,
			TargetStep: 0.1,
			Seed:       1,
		},
	}
}

// WithTau sets the base simulation timestep.
func (b *Builder) WithTau(tau float64) *Builder {
	b.model.Tau = tau
	return b
}

// WithTargetStep sets the target per-event displacement used to derive
// per-species timestep multipliers (§4.6.1 kinetics).
func (b *Builder) WithTargetStep(step float64) *Builder {
	b.model.TargetStep = step
	return b
}

// WithSeed sets the PRNG seed for reproducible runs.
func (b *Builder) WithSeed(seed uint64) *Builder {
	b.model.Seed = seed
	return b
}

// WithNotifications overrides the default notification settings.
func (b *Builder) WithNotifications(n config.Notifications) *Builder {
	b.model.Notify = n
	return b
}

// WithParameter defines a named numeric constant.
func (b *Builder) WithParameter(name string, value float64) *Builder {
	b.model.Parameters.Set(name, value)
	return b
}

// AddRule appends a reaction rule to the model.
func (b *Builder) AddRule(r reaction.Rule) *Builder {
	if len(r.Reactants) == 0 {
		b.errs = append(b.errs, fmt.Errorf("modelbuilder: rule %q has no reactants", r.Name))
		return b
	}
	b.model.Rules = append(b.model.Rules, r)
	return b
}

// AddRelease schedules an initial molecule placement.
func (b *Builder) AddRelease(r Release) *Builder {
	if r.Count < 0 {
		b.errs = append(b.errs, fmt.Errorf("modelbuilder: release of %d molecules is negative", r.Count))
		return b
	}
	b.model.Releases = append(b.model.Releases, r)
	return b
}

// AddObservable registers a pattern to periodically count.
func (b *Builder) AddObservable(o Observable) *Builder {
	b.model.Observables = append(b.model.Observables, o)
	return b
}

// WithSurfaceClass registers a named surface class's wall-hit behaviour.
func (b *Builder) WithSurfaceClass(def SurfaceClassDef) *Builder {
	b.model.SurfaceClasses = append(b.model.SurfaceClasses, def)
	return b
}

// Geometry exposes the model's geometry store directly, so callers can
// use geom's own constructors (AddBox, AddIcosphere, ...) while building.
func (b *Builder) Geometry() *geom.Store {
	return b.model.Store
}

// Build validates and returns the assembled Model, or every accumulated
// configuration error.
func (b *Builder) Build() (*Model, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("modelbuilder: %d configuration error(s): %w", len(b.errs), joinErrors(b.errs))
	}
	if len(b.model.Rules) == 0 && len(b.model.Releases) == 0 {
		return nil, fmt.Errorf("modelbuilder: model has neither rules nor releases")
	}
	return b.model, nil
}

// joinErrors joins multiple errors into one, in the style of errors.Join
// (duplicated here rather than imported so the single combined message
// can be wrapped with a count prefix above).
func joinErrors(errs []error) error {
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return fmt.Errorf("%s", msg)
}
