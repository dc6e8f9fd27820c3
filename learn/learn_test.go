package learn

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/forestfloor/forestfloor/abi"
)

func TestLearnFlow(t *testing.T) {
	l := NewLearner()
	if !l.Begin(2, abi.SlotFilterCutoff) {
		t.Fatal("Begin(2, filter_cutoff) failed")
	}
	if !l.Armed() {
		t.Fatal("learner not armed after Begin")
	}
	update, ok := l.HandleMessage(midi.ControlChange(0, 74, 100))
	if !ok {
		t.Fatal("learned CC produced no update")
	}
	if update.ParameterID != 0x1023 {
		t.Fatalf("got parameter %#x, want 0x1023", update.ParameterID)
	}
	if want := float32(100) / 127; update.NormalizedValue != want {
		t.Fatalf("got value %v, want %v", update.NormalizedValue, want)
	}
	if l.Armed() {
		t.Fatal("learner still armed after binding")
	}
	if got, want := l.LastBinding(), "CC 74 -> track 3 filter_cutoff"; got != want {
		t.Fatalf("got binding %q, want %q", got, want)
	}
	if id, ok := l.Binding(74); !ok || id != 0x1023 {
		t.Fatalf("Binding(74) = (%#x, %v), want (0x1023, true)", id, ok)
	}

	// Subsequent messages on the bound controller keep flowing through.
	update, ok = l.HandleMessage(midi.ControlChange(0, 74, 0))
	if !ok || update.ParameterID != 0x1023 || update.NormalizedValue != 0 {
		t.Fatalf("rebound CC: got (%#v, %v)", update, ok)
	}
}

func TestBeginRejectsInvalidTargets(t *testing.T) {
	l := NewLearner()
	if l.Begin(8, abi.SlotGain) {
		t.Error("track past the last accepted")
	}
	if l.Begin(0, abi.Slot(0)) {
		t.Error("unknown slot accepted")
	}
	if l.Armed() {
		t.Error("learner armed by a rejected Begin")
	}
}

func TestUnboundAndNonCCMessages(t *testing.T) {
	l := NewLearner()
	if _, ok := l.HandleMessage(midi.ControlChange(0, 21, 64)); ok {
		t.Error("unbound CC produced an update")
	}
	if _, ok := l.HandleMessage(midi.NoteOn(0, 60, 100)); ok {
		t.Error("note-on produced an update")
	}
}

func TestCancelDisarms(t *testing.T) {
	l := NewLearner()
	l.Begin(0, abi.SlotGain)
	l.Cancel()
	if l.Armed() {
		t.Fatal("learner still armed after Cancel")
	}
	if _, ok := l.HandleMessage(midi.ControlChange(0, 10, 64)); ok {
		t.Fatal("cancelled session still bound a CC")
	}
}

func TestPadTriggerMapping(t *testing.T) {
	l := NewLearner()
	pad, ok := l.PadTrigger(midi.NoteOn(0, DefaultPadBaseNote, 100))
	if !ok || pad.Track != 0 || pad.Velocity != 100 {
		t.Fatalf("base note: got (%#v, %v)", pad, ok)
	}
	pad, ok = l.PadTrigger(midi.NoteOn(0, DefaultPadBaseNote+7, 1))
	if !ok || pad.Track != 7 {
		t.Fatalf("last pad: got (%#v, %v)", pad, ok)
	}
	if _, ok := l.PadTrigger(midi.NoteOn(0, DefaultPadBaseNote+8, 100)); ok {
		t.Error("note past the last pad accepted")
	}
	if _, ok := l.PadTrigger(midi.NoteOn(0, DefaultPadBaseNote-1, 100)); ok {
		t.Error("note below the base accepted")
	}
	if _, ok := l.PadTrigger(midi.NoteOn(0, DefaultPadBaseNote, 0)); ok {
		t.Error("zero-velocity note-on accepted")
	}
	if _, ok := l.PadTrigger(midi.ControlChange(0, 1, 1)); ok {
		t.Error("control change accepted as a pad hit")
	}

	l.SetPadBaseNote(60)
	pad, ok = l.PadTrigger(midi.NoteOn(0, 63, 90))
	if !ok || pad.Track != 3 {
		t.Fatalf("rebased pad: got (%#v, %v)", pad, ok)
	}
}
