package forestfloor

type (
	// Step is one cell of the 16-step grid: whether the cell triggers and at
	// what velocity.
	Step struct {
		Active   bool `yaml:"active"`
		Velocity byte `yaml:"velocity"`
	}

	// Pattern is the fixed 8-track by 16-step grid, stored flat so that cell
	// (track, step) lives at index track*NumSteps+step, plus the swing amount
	// applied when the pattern is played. All cell access is bounds-checked;
	// out-of-range indices fail without touching the grid.
	Pattern struct {
		Name  string                     `yaml:",omitempty"`
		Swing float64                    `yaml:",omitempty"`
		Steps [NumTracks * NumSteps]Step `yaml:",flow"`
	}
)

// DefaultStep returns an inactive step with the default velocity of 100.
func DefaultStep() Step {
	return Step{Active: false, Velocity: 100}
}

// NewPattern returns an empty pattern with every cell set to DefaultStep and
// no swing.
func NewPattern() Pattern {
	var p Pattern
	for i := range p.Steps {
		p.Steps[i] = DefaultStep()
	}
	return p
}

// Step returns the cell at (track, step), or false if either index is out of
// range.
func (p *Pattern) Step(track, step int) (Step, bool) {
	if track < 0 || track >= NumTracks || step < 0 || step >= NumSteps {
		return Step{}, false
	}
	return p.Steps[track*NumSteps+step], true
}

// SetStep sets the cell at (track, step), returning false without writing if
// either index is out of range.
func (p *Pattern) SetStep(track, step int, s Step) bool {
	if track < 0 || track >= NumTracks || step < 0 || step >= NumSteps {
		return false
	}
	p.Steps[track*NumSteps+step] = s
	return true
}

// SetSwing sets the swing amount, clamped to [0, MaxSwing].
func (p *Pattern) SetSwing(swing float64) {
	p.Swing = ClampSwing(swing)
}
