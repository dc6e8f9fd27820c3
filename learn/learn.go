// Package learn keeps the MIDI CC-learn bookkeeping: it arms a (track, slot)
// target, binds the next control change seen to that target's parameter ID,
// and thereafter compiles incoming control changes into parameter updates.
// It consumes already-parsed midi.Message values; opening devices and
// listening to ports is the host's job.
package learn

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/forestfloor/forestfloor"
	"github.com/forestfloor/forestfloor/abi"
)

// DefaultPadBaseNote is the MIDI note mapped to track 0; notes above it map
// to the following tracks.
const DefaultPadBaseNote = 36

type (
	// Target is the parameter a learn session is armed for.
	Target struct {
		Track int
		Slot  abi.Slot
	}

	// PadTrigger is a note-on translated to a track pad hit.
	PadTrigger struct {
		Track    int
		Velocity byte
	}

	// Learner owns the cc-to-parameter binding table and the armed learn
	// target. Not safe for concurrent use; drive it from the control thread.
	Learner struct {
		bindings    [128]uint32 // cc -> parameter id, 0 = unbound
		target      Target
		armed       bool
		lastBinding string
		padBaseNote byte
	}
)

// NewLearner returns a learner with no bindings and the default pad mapping.
func NewLearner() *Learner {
	return &Learner{padBaseNote: DefaultPadBaseNote}
}

// Begin arms a learn session for the given track and slot. Returns false if
// the combination derives no parameter ID.
func (l *Learner) Begin(track int, slot abi.Slot) bool {
	if _, ok := abi.ParameterID(track, slot); !ok {
		return false
	}
	l.target = Target{Track: track, Slot: slot}
	l.armed = true
	l.lastBinding = ""
	return true
}

// Cancel disarms any pending learn session.
func (l *Learner) Cancel() {
	l.armed = false
}

// Armed reports whether a learn session is pending.
func (l *Learner) Armed() bool { return l.armed }

// LastBinding describes the most recently learned binding, e.g.
// "CC 74 -> track 3 filter_cutoff", or "" if none was learned since Begin.
func (l *Learner) LastBinding() string { return l.lastBinding }

// Binding returns the parameter ID bound to a controller number, if any.
func (l *Learner) Binding(controller uint8) (uint32, bool) {
	if controller > 127 || l.bindings[controller] == 0 {
		return 0, false
	}
	return l.bindings[controller], true
}

// SetPadBaseNote changes the note mapped to track 0.
func (l *Learner) SetPadBaseNote(note byte) {
	l.padBaseNote = note
}

// HandleMessage consumes one MIDI message. A control change first completes
// any armed learn session, then resolves through the binding table into a
// parameter update with the CC value rescaled to [0,1]. Non-CC messages and
// unbound controllers produce nothing.
func (l *Learner) HandleMessage(msg midi.Message) (abi.ParameterUpdate, bool) {
	var channel, controller, value uint8
	if !msg.GetControlChange(&channel, &controller, &value) {
		return abi.ParameterUpdate{}, false
	}
	if l.armed {
		if id, ok := abi.ParameterID(l.target.Track, l.target.Slot); ok {
			l.bindings[controller] = id
			l.lastBinding = fmt.Sprintf("CC %d -> track %d %s", controller, l.target.Track+1, l.target.Slot)
		}
		l.armed = false
	}
	id := l.bindings[controller]
	if id == 0 {
		return abi.ParameterUpdate{}, false
	}
	return abi.ParameterUpdate{
		ParameterID:     id,
		NormalizedValue: float32(value) / 127,
	}, true
}

// PadTrigger translates a note-on into a pad hit on the corresponding track.
// Notes below the base note, beyond the last track, or with zero velocity
// (running-status note-offs) produce nothing.
func (l *Learner) PadTrigger(msg midi.Message) (PadTrigger, bool) {
	var channel, key, velocity uint8
	if !msg.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
		return PadTrigger{}, false
	}
	if key < l.padBaseNote {
		return PadTrigger{}, false
	}
	track := int(key - l.padBaseNote)
	if track >= forestfloor.NumTracks {
		return PadTrigger{}, false
	}
	return PadTrigger{Track: track, Velocity: velocity}, true
}
