// Package recall rebuilds live runtime state from a stored project and
// compiles that state into the protocol records that reproduce it in the
// engine. Building is all-or-nothing and not real-time-safe; run it on the
// control thread and hand the finished State to the audio path afterwards.
package recall

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/forestfloor/forestfloor"
	"github.com/forestfloor/forestfloor/abi"
	"github.com/forestfloor/forestfloor/sequencer"
	"github.com/forestfloor/forestfloor/types"
)

type (
	// TrackRecall is the normalized per-track state recalled from a kit: the
	// assigned sample (empty = unassigned), the choke group, and the five
	// continuous controls rescaled to 0..127 levels.
	TrackRecall struct {
		SampleID      string
		ChokeGroup    types.OptionalInteger
		Gain          byte
		Pan           byte
		FilterCutoff  byte
		EnvelopeDecay byte
		Pitch         byte
	}

	// State is the result of recalling one project snapshot: a ready
	// sequencer plus the normalized track state the engine needs.
	State struct {
		Sequencer *sequencer.Sequencer
		Tracks    [forestfloor.NumTracks]TrackRecall
	}

	// SampleAssignment tells the engine which sample a track plays.
	SampleAssignment struct {
		Track    int
		SampleID string
	}

	// EngineRecall is the compiled form of a State: ordered sample
	// assignments and ordered parameter updates. It is derived on demand and
	// never stored.
	EngineRecall struct {
		Samples    []SampleAssignment
		Parameters []abi.ParameterUpdate
	}
)

// BuildState constructs runtime state from a project snapshot. The active kit
// and pattern default to index 0 only when unset; an empty kit or pattern
// list and an explicit out-of-range index are errors, and an explicit user
// selection is never silently reassigned. On error nothing is installed.
func BuildState(project forestfloor.Project, sampleRate float64) (*State, error) {
	kitIndex, err := activeIndex(project.ActiveKit, len(project.Kits), "kits")
	if err != nil {
		return nil, err
	}
	patternIndex, err := activeIndex(project.ActivePattern, len(project.Patterns), "patterns")
	if err != nil {
		return nil, err
	}

	seq := sequencer.New(sampleRate)
	bpm := project.BPM
	if bpm == 0 {
		bpm = forestfloor.DefaultBPM
	}
	seq.SetBPM(bpm)
	seq.SetPattern(project.Patterns[patternIndex])

	kit := project.Kits[kitIndex]
	state := &State{Sequencer: seq}
	for track := 0; track < forestfloor.NumTracks; track++ {
		content := kit.Tracks[track]
		choke := chokeFromKit(content.ChokeGroup)
		seq.SetChokeGroup(track, choke)
		state.Tracks[track] = TrackRecall{
			SampleID:      content.SampleID,
			ChokeGroup:    choke,
			Gain:          normalizeUnit(content.Gain),
			Pan:           normalizePan(content.Pan),
			FilterCutoff:  normalizeUnit(content.FilterCutoff),
			EnvelopeDecay: normalizeUnit(content.EnvelopeDecay),
			Pitch:         normalizePitch(content.PitchSemitones),
		}
	}

	logrus.WithFields(logrus.Fields{
		"project": project.Name,
		"kit":     kit.Name,
		"pattern": project.Patterns[patternIndex].Name,
	}).Debug("recall state built")
	return state, nil
}

// EngineRecall compiles the state into protocol records: sample assignments
// in ascending track order, then one ParameterUpdate per (track, slot) with
// the normalized level re-expanded to [0,1]. Slot derivation failures are
// skipped silently; they cannot happen for tracks 0..7 but the skip keeps
// compilation total.
func (s *State) EngineRecall() EngineRecall {
	var recall EngineRecall
	for track := 0; track < forestfloor.NumTracks; track++ {
		if id := s.Tracks[track].SampleID; id != "" {
			recall.Samples = append(recall.Samples, SampleAssignment{Track: track, SampleID: id})
		}
	}
	for track := 0; track < forestfloor.NumTracks; track++ {
		state := &s.Tracks[track]
		values := [...]struct {
			slot  abi.Slot
			value float32
		}{
			{abi.SlotGain, expandLevel(state.Gain)},
			{abi.SlotPan, expandLevel(state.Pan)},
			{abi.SlotFilterCutoff, expandLevel(state.FilterCutoff)},
			{abi.SlotEnvelopeDecay, expandLevel(state.EnvelopeDecay)},
			{abi.SlotPitch, expandLevel(state.Pitch)},
			{abi.SlotChokeGroup, chokeLevel(state.ChokeGroup)},
		}
		for _, v := range values {
			id, ok := abi.ParameterID(track, v.slot)
			if !ok {
				continue
			}
			recall.Parameters = append(recall.Parameters, abi.ParameterUpdate{
				ParameterID:     id,
				NormalizedValue: v.value,
			})
		}
	}
	return recall
}

// TriggerEvent compiles a live step trigger into its protocol form.
func TriggerEvent(t sequencer.StepTrigger, source uint16) abi.Event {
	return abi.NewTrigger(t.TimelineSample, uint32(t.BlockOffset), source,
		byte(t.Track), byte(t.Step), float32(t.Velocity)/127)
}

// TransportStartEvent returns the protocol event announcing that the given
// sequencer's transport started, stamped at its current timeline position.
func TransportStartEvent(seq *sequencer.Sequencer, source uint16) abi.Event {
	return abi.NewTransportStart(seq.TimelineSample(), 0, source, float32(seq.BPM()))
}

// TransportStopEvent is the stop counterpart of TransportStartEvent.
func TransportStopEvent(seq *sequencer.Sequencer, source uint16) abi.Event {
	return abi.NewTransportStop(seq.TimelineSample(), 0, source, float32(seq.BPM()))
}

func activeIndex(selected *int, count int, what string) (int, error) {
	if count == 0 {
		return 0, fmt.Errorf("project has no %s", what)
	}
	if selected == nil {
		return 0, nil
	}
	if *selected < 0 || *selected >= count {
		return 0, fmt.Errorf("active index %d out of range: project has %d %s", *selected, count, what)
	}
	return *selected, nil
}

func chokeFromKit(group int) types.OptionalInteger {
	if group < 0 {
		return types.NewEmptyOptionalInteger()
	}
	return types.NewOptionalIntegerOf(min(group, 15))
}

// normalizeUnit maps [0,1] linearly onto the 0..127 level range.
func normalizeUnit(v float64) byte {
	return byte(math.Round(min(max(v, 0), 1) * 127))
}

// normalizePan maps [-1,1] onto 0..127 with the midpoint at 0.
func normalizePan(v float64) byte {
	return byte(math.Round((min(max(v, -1), 1) + 1) / 2 * 127))
}

// normalizePitch maps [-24,+24] semitones onto 0..127.
func normalizePitch(v float64) byte {
	return byte(math.Round((min(max(v, -24), 24) + 24) / 48 * 127))
}

// expandLevel re-expands a 0..127 level to the engine's [0,1] range.
func expandLevel(level byte) float32 {
	return float32(level) / 127
}

// chokeLevel maps choke groups onto 16 bands of the [0,1] range, with band 0
// reserved for "no group".
func chokeLevel(group types.OptionalInteger) float32 {
	g, ok := group.Unpack()
	if !ok {
		return 0
	}
	return float32(min(g, 15)+1) / 16
}
