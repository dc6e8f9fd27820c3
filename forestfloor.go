// Package forestfloor is the control core of the Forest Floor drum machine.
// It owns the step-sequencing data model (patterns, transport, kits and
// projects) and the project persistence entry points. The sample-accurate
// clock lives in the sequencer package, the binary engine contract in the abi
// package, and the preset-to-runtime mapping in the recall package. The audio
// rendering engine itself is a separate process/plugin that consumes abi
// records verbatim; nothing in this module renders audio.
package forestfloor

const (
	// NumTracks is the number of drum tracks in a pattern and a kit.
	NumTracks = 8

	// NumSteps is the number of steps per track in a pattern.
	NumSteps = 16
)

const (
	MinBPM     = 20.0
	MaxBPM     = 300.0
	DefaultBPM = 120.0

	// MaxSwing is the largest usable swing amount; beyond this odd steps
	// become too short to groove.
	MaxSwing = 0.45
)

// ClampBPM returns bpm limited to the supported tempo range.
func ClampBPM(bpm float64) float64 {
	return min(max(bpm, MinBPM), MaxBPM)
}

// ClampSwing returns swing limited to [0, MaxSwing].
func ClampSwing(swing float64) float64 {
	return min(max(swing, 0), MaxSwing)
}
