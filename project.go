package forestfloor

type (
	// KitTrack is the per-track content of a kit: which sample the track
	// plays and the engine controls recalled with it. ChokeGroup uses -1 for
	// "no group"; groups 0..15 choke each other downstream.
	KitTrack struct {
		SampleID       string  `yaml:"sampleid,omitempty"`
		Gain           float64 `yaml:"gain"`
		Pan            float64 `yaml:"pan"`
		FilterCutoff   float64 `yaml:"filtercutoff"`
		EnvelopeDecay  float64 `yaml:"envelopedecay"`
		PitchSemitones float64 `yaml:"pitchsemitones"`
		ChokeGroup     int     `yaml:"chokegroup"`
	}

	// Kit names a full set of 8 track assignments.
	Kit struct {
		Name   string
		Tracks [NumTracks]KitTrack
	}

	// Project is the stored preset: kits, patterns and which of each is
	// active. A nil active index means "unset" and defaults to the first
	// entry on recall; an explicit index is validated and never reassigned.
	Project struct {
		Name          string
		BPM           float64   `yaml:"bpm"`
		Kits          []Kit     `yaml:",omitempty"`
		ActiveKit     *int      `yaml:"activekit,omitempty"`
		Patterns      []Pattern `yaml:",omitempty"`
		ActivePattern *int      `yaml:"activepattern,omitempty"`
	}
)

// DefaultKitTrack returns an unassigned track with neutral controls and no
// choke group.
func DefaultKitTrack() KitTrack {
	return KitTrack{
		Gain:         1,
		FilterCutoff: 1,
		ChokeGroup:   -1,
	}
}

// NewKit returns a named kit with every track set to DefaultKitTrack.
func NewKit(name string) Kit {
	kit := Kit{Name: name}
	for i := range kit.Tracks {
		kit.Tracks[i] = DefaultKitTrack()
	}
	return kit
}

// Copy makes a deep copy of a Kit.
func (k *Kit) Copy() Kit {
	return *k // Tracks is a value array, so a plain copy is already deep
}

// Copy makes a deep copy of a Project.
func (p *Project) Copy() Project {
	kits := make([]Kit, len(p.Kits))
	copy(kits, p.Kits)
	patterns := make([]Pattern, len(p.Patterns))
	copy(patterns, p.Patterns)
	ret := Project{Name: p.Name, BPM: p.BPM, Kits: kits, Patterns: patterns}
	if p.ActiveKit != nil {
		v := *p.ActiveKit
		ret.ActiveKit = &v
	}
	if p.ActivePattern != nil {
		v := *p.ActivePattern
		ret.ActivePattern = &v
	}
	return ret
}
