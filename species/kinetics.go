package species

import "math"

// DiffusionClass holds the per-species diffusion constant and the derived
// step sizes that drive the diffusion engine (§4.6 / §9 kinetics notes).
type DiffusionClass struct {
	D float64 // diffusion constant, length^2 / time

	// SpaceStep is the species' characteristic displacement per base
	// timestep Tau: sigma = sqrt(4*D*Tau).
	SpaceStep float64

	// TimeStepFactor is the integer multiple of the base timestep this
	// species actually advances by, chosen so SpaceStep/TimeStepFactor
	// stays near TargetStep: max(1, ceil(SpaceStep/TargetStep)).
	TimeStepFactor int

	// Stationary is true for D == 0: the species never diffuses and the
	// engine must special-case it rather than sample a zero-variance
	// Gaussian every event.
	Stationary bool
}

// DeriveDiffusionClass computes the space step and timestep multiplier for
// a species with diffusion constant d, given the simulation's base
// timestep tau and target per-step displacement targetStep.
//
// A species with d <= 0 is flagged Stationary and gets SpaceStep 0,
// TimeStepFactor 1 — it still participates in unimolecular scheduling, it
// simply never generates a diffusion displacement.
func DeriveDiffusionClass(d, tau, targetStep float64) DiffusionClass {
	if d <= 0 {
		return DiffusionClass{D: 0, SpaceStep: 0, TimeStepFactor: 1, Stationary: true}
	}
	sigma := math.Sqrt(4 * d * tau)
	factor := 1
	if targetStep > 0 && sigma > targetStep {
		factor = int(math.Ceil(sigma / targetStep))
		if factor < 1 {
			factor = 1
		}
	}
	return DiffusionClass{D: d, SpaceStep: sigma, TimeStepFactor: factor}
}

// EffectiveTau returns the actual simulated time interval between this
// species' diffusion events: its TimeStepFactor multiples of the base
// timestep.
func (dc DiffusionClass) EffectiveTau(tau float64) float64 {
	return tau * float64(dc.TimeStepFactor)
}

// EffectiveSpaceStep returns the displacement standard deviation to sample
// at this species' own effective timestep: sqrt(4*D*EffectiveTau).
func (dc DiffusionClass) EffectiveSpaceStep(tau float64) float64 {
	if dc.Stationary {
		return 0
	}
	return math.Sqrt(4 * dc.D * dc.EffectiveTau(tau))
}
