package abi

// Per-track parameter IDs are laid out as base + track*stride + slot, giving
// each track a bank of 16 slots of which 6 are assigned.
const (
	ParamTrackBase   = 0x1000
	ParamTrackStride = 0x10
)

// NumTracks is the number of track parameter banks the engine exposes.
const NumTracks = 8

// Slot selects one parameter within a track's bank.
type Slot uint32

const (
	SlotGain Slot = iota + 1
	SlotPan
	SlotFilterCutoff
	SlotEnvelopeDecay
	SlotPitch
	SlotChokeGroup
)

func (s Slot) String() string {
	switch s {
	case SlotGain:
		return "gain"
	case SlotPan:
		return "pan"
	case SlotFilterCutoff:
		return "filter_cutoff"
	case SlotEnvelopeDecay:
		return "envelope_decay"
	case SlotPitch:
		return "pitch"
	case SlotChokeGroup:
		return "choke_group"
	}
	return "unknown"
}

// ParameterID derives the parameter ID for a track and slot. It returns false
// for out-of-range tracks and unknown slots; callers such as MIDI learn probe
// invalid combinations routinely, so failure is absence rather than an error.
func ParameterID(track int, slot Slot) (uint32, bool) {
	if track < 0 || track >= NumTracks {
		return 0, false
	}
	if slot < SlotGain || slot > SlotChokeGroup {
		return 0, false
	}
	return ParamTrackBase + uint32(track)*ParamTrackStride + uint32(slot), true
}
