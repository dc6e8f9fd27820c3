// Package sequencer is the sample-accurate timing engine. A Sequencer is
// driven once per audio callback from the real-time thread via ProcessBlock;
// all mutation (tempo, swing, pattern cells, choke groups) must be serialized
// against ProcessBlock by the host, typically through a command queue drained
// at the top of the callback. The Sequencer itself takes no locks, never
// blocks and never panics; the only allocation in ProcessBlock is the
// returned trigger slice.
package sequencer

import (
	"math"

	"github.com/forestfloor/forestfloor"
	"github.com/forestfloor/forestfloor/types"
)

// intervalEpsilon absorbs floating-point shortfall when deciding whether the
// remaining block samples complete the pending step interval.
const intervalEpsilon = 1e-9

type (
	// StepTrigger is one step firing on one track. Triggers emitted for the
	// same tick are ordered by ascending track index; BlockOffset is relative
	// to the start of the block that produced the trigger and TimelineSample
	// is absolute.
	StepTrigger struct {
		Track          int
		Step           int
		Velocity       byte
		ChokeGroup     types.OptionalInteger
		TimelineSample uint64
		BlockOffset    int
	}

	// TrackPerformance carries the per-track annotations stamped onto every
	// trigger. Choke enforcement happens in the engine; the sequencer only
	// labels.
	TrackPerformance struct {
		ChokeGroup types.OptionalInteger
	}

	// Sequencer owns the transport, the live pattern, per-track performance
	// state and the fractional-sample step clock. samplesToNextStep always
	// reflects the boundary about to elapse under the current tempo and
	// swing; tempo/swing changes may only shrink it, never grow it, so a step
	// already in flight is never pushed later.
	Sequencer struct {
		transport forestfloor.Transport
		pattern   forestfloor.Pattern
		tracks    [forestfloor.NumTracks]TrackPerformance

		sampleRate        float64
		currentStep       int
		samplesToNextStep float64
		timelineSample    uint64
		emitOnNextBlock   bool
	}
)

// New returns a stopped sequencer at the given sample rate with an empty
// pattern and the default tempo. Rates below 1 Hz are raised to 1.
func New(sampleRate float64) *Sequencer {
	s := &Sequencer{
		transport:  forestfloor.DefaultTransport(),
		pattern:    forestfloor.NewPattern(),
		sampleRate: max(sampleRate, 1),
	}
	s.samplesToNextStep = s.stepInterval(0)
	return s
}

// Playing reports whether the transport is running.
func (s *Sequencer) Playing() bool { return s.transport.IsPlaying }

// Transport returns a copy of the transport state.
func (s *Sequencer) Transport() forestfloor.Transport { return s.transport }

// SampleRate returns the rate the clock runs at.
func (s *Sequencer) SampleRate() float64 { return s.sampleRate }

// CurrentStep returns the step the clock last emitted (or is armed to emit).
func (s *Sequencer) CurrentStep() int { return s.currentStep }

// TimelineSample returns the monotonic sample counter.
func (s *Sequencer) TimelineSample() uint64 { return s.timelineSample }

// Start rewinds to step 0 and arms it so the next non-empty ProcessBlock
// emits it at offset 0. No-op if already running.
func (s *Sequencer) Start() {
	if s.transport.IsPlaying {
		return
	}
	s.transport.IsPlaying = true
	s.currentStep = 0
	s.samplesToNextStep = s.stepInterval(0)
	s.emitOnNextBlock = true
}

// Stop halts the transport and disarms any pending immediate emission.
func (s *Sequencer) Stop() {
	if !s.transport.IsPlaying {
		return
	}
	s.transport.IsPlaying = false
	s.emitOnNextBlock = false
}

// Reset rewinds the clock to step 0 and timeline sample 0 in either
// transport state, recomputing the next interval from the current tempo and
// swing.
func (s *Sequencer) Reset() {
	s.currentStep = 0
	s.timelineSample = 0
	s.samplesToNextStep = s.stepInterval(0)
	s.emitOnNextBlock = false
}

// BPM returns the current tempo.
func (s *Sequencer) BPM() float64 { return s.transport.BPM }

// SetBPM sets the tempo, clamped to the transport range. The pending step
// interval is recomputed shrink-only: the change takes effect at the next
// boundary and never delays a step already in flight.
func (s *Sequencer) SetBPM(bpm float64) {
	s.transport.SetBPM(bpm)
	s.samplesToNextStep = min(s.samplesToNextStep, s.stepInterval(s.currentStep))
}

// Swing returns the current swing amount.
func (s *Sequencer) Swing() float64 { return s.pattern.Swing }

// SetSwing sets the swing amount, clamped to [0, MaxSwing], with the same
// shrink-only pending-interval rule as SetBPM.
func (s *Sequencer) SetSwing(swing float64) {
	s.pattern.SetSwing(swing)
	s.samplesToNextStep = min(s.samplesToNextStep, s.stepInterval(s.currentStep))
}

// Step returns the pattern cell at (track, step), or false if out of range.
func (s *Sequencer) Step(track, step int) (forestfloor.Step, bool) {
	return s.pattern.Step(track, step)
}

// SetStep sets the pattern cell at (track, step), returning false without
// writing if out of range.
func (s *Sequencer) SetStep(track, step int, cell forestfloor.Step) bool {
	return s.pattern.SetStep(track, step, cell)
}

// SetPattern replaces the whole grid and swing at once, applying the
// shrink-only rule for the swing change.
func (s *Sequencer) SetPattern(pattern forestfloor.Pattern) {
	pattern.Swing = forestfloor.ClampSwing(pattern.Swing)
	s.pattern = pattern
	s.samplesToNextStep = min(s.samplesToNextStep, s.stepInterval(s.currentStep))
}

// ChokeGroup returns the choke-group annotation for a track; absent for
// out-of-range tracks.
func (s *Sequencer) ChokeGroup(track int) types.OptionalInteger {
	if track < 0 || track >= forestfloor.NumTracks {
		return types.NewEmptyOptionalInteger()
	}
	return s.tracks[track].ChokeGroup
}

// SetChokeGroup sets or clears the choke-group annotation for a track.
// Returns false without writing if the track is out of range or a present
// group is outside [0, 15].
func (s *Sequencer) SetChokeGroup(track int, group types.OptionalInteger) bool {
	if track < 0 || track >= forestfloor.NumTracks {
		return false
	}
	if g, ok := group.Unpack(); ok && (g < 0 || g > 15) {
		return false
	}
	s.tracks[track].ChokeGroup = group
	return true
}

// ProcessBlock advances the clock by frames samples and returns the step
// triggers falling inside the block, in (offset, track) order. When the
// transport is stopped or frames is zero it returns nil with no side
// effects. Tempo and swing read at each boundary are the current ones; a
// leftover fractional interval persists into the next call since block sizes
// need not align to step boundaries.
func (s *Sequencer) ProcessBlock(frames int) []StepTrigger {
	if frames <= 0 || !s.transport.IsPlaying {
		return nil
	}
	var triggers []StepTrigger
	if s.emitOnNextBlock {
		triggers = s.collectStep(triggers, s.currentStep, 0)
		s.emitOnNextBlock = false
		s.samplesToNextStep = s.stepInterval(s.currentStep)
	}
	remaining := float64(frames)
	consumed := 0.0
	for remaining > 0 {
		if s.samplesToNextStep > remaining+intervalEpsilon {
			s.samplesToNextStep -= remaining
			break
		}
		advance := max(s.samplesToNextStep, 0)
		consumed += advance
		remaining -= advance
		s.currentStep = (s.currentStep + 1) % forestfloor.NumSteps
		// Offsets are rounded, not truncated, so fractional intervals do not
		// drift the grid backwards over long runs.
		offset := min(int(math.Round(consumed)), frames)
		triggers = s.collectStep(triggers, s.currentStep, offset)
		s.samplesToNextStep = s.stepInterval(s.currentStep)
	}
	s.timelineSample += uint64(frames)
	return triggers
}

func (s *Sequencer) collectStep(triggers []StepTrigger, step, offset int) []StepTrigger {
	for track := 0; track < forestfloor.NumTracks; track++ {
		cell, ok := s.pattern.Step(track, step)
		if !ok || !cell.Active {
			continue
		}
		triggers = append(triggers, StepTrigger{
			Track:          track,
			Step:           step,
			Velocity:       cell.Velocity,
			ChokeGroup:     s.tracks[track].ChokeGroup,
			TimelineSample: s.timelineSample + uint64(offset),
			BlockOffset:    offset,
		})
	}
	return triggers
}

// stepInterval returns the length in samples of the interval that follows
// step, under the current tempo and swing: sixteenth notes in 4/4, with
// even-indexed steps lengthened by (1+swing) and odd-indexed shortened by
// (1-swing).
func (s *Sequencer) stepInterval(step int) float64 {
	base := s.sampleRate * 60 / s.transport.BPM / 4
	swing := s.pattern.Swing
	if swing <= 0 {
		return base
	}
	if step%2 == 0 {
		return base * (1 + swing)
	}
	return base * (1 - swing)
}
