// Package abi defines the binary contract between the control core and the
// audio rendering engine: fixed-layout event and parameter-update records and
// the parameter-ID scheme. The sizes, field offsets and little-endian byte
// order below are shared with the engine verbatim; any change to them is a
// breaking protocol change and must bump VersionMajor.
package abi

import (
	"encoding/binary"
	"errors"
	"math"
)

// Protocol version. Minor bumps are additive (new event types); major bumps
// change layout.
const (
	VersionMajor = 1
	VersionMinor = 0
)

// EventType discriminates the 8-byte event payload.
type EventType uint32

const (
	EventNoteOn         EventType = 1
	EventNoteOff        EventType = 2
	EventTrigger        EventType = 3
	EventTransportStart EventType = 4
	EventTransportStop  EventType = 5
)

// Record sizes in bytes. EventSize includes 4 bytes of trailing padding so
// that events stay 8-byte aligned when packed back to back.
const (
	EventSize           = 32
	ParameterUpdateSize = 16
)

// Field offsets within a marshaled Event.
const (
	eventTimelineOffset = 0
	eventBlockOffset    = 8
	eventSourceOffset   = 12
	eventReservedOffset = 14
	eventTypeOffset     = 16
	eventPayloadOffset  = 20
	eventPayloadSize    = 8
)

type (
	// Event is the envelope handed across the engine boundary. The payload is
	// a raw 8-byte buffer whose interpretation is guarded by Type; use the
	// constructors and the Note/Trigger/Transport accessors instead of
	// touching it directly.
	Event struct {
		TimelineSample uint64
		BlockOffset    uint32
		SourceID       uint16
		Type           EventType
		payload        [eventPayloadSize]byte
	}

	// NotePayload is carried by EventNoteOn and EventNoteOff.
	NotePayload struct {
		Track    byte
		Note     byte
		Velocity float32
	}

	// TriggerPayload is carried by EventTrigger.
	TriggerPayload struct {
		Track    byte
		Step     byte
		Velocity float32
	}

	// TransportPayload is carried by EventTransportStart and
	// EventTransportStop.
	TransportPayload struct {
		BPM float32
	}

	// ParameterUpdate sets one engine parameter to a normalized [0,1] value,
	// optionally ramped over RampSamples frames.
	ParameterUpdate struct {
		ParameterID     uint32
		NormalizedValue float32
		RampSamples     uint32
		Reserved        uint32
	}
)

// NewNoteOn returns a note-on event.
func NewNoteOn(timeline uint64, blockOffset uint32, source uint16, track, note byte, velocity float32) Event {
	e := Event{TimelineSample: timeline, BlockOffset: blockOffset, SourceID: source, Type: EventNoteOn}
	e.putNote(track, note, velocity)
	return e
}

// NewNoteOff returns a note-off event.
func NewNoteOff(timeline uint64, blockOffset uint32, source uint16, track, note byte, velocity float32) Event {
	e := Event{TimelineSample: timeline, BlockOffset: blockOffset, SourceID: source, Type: EventNoteOff}
	e.putNote(track, note, velocity)
	return e
}

// NewTrigger returns a step-trigger event.
func NewTrigger(timeline uint64, blockOffset uint32, source uint16, track, step byte, velocity float32) Event {
	e := Event{TimelineSample: timeline, BlockOffset: blockOffset, SourceID: source, Type: EventTrigger}
	e.payload[0] = track
	e.payload[1] = step
	binary.LittleEndian.PutUint32(e.payload[4:], math.Float32bits(velocity))
	return e
}

// NewTransportStart returns a transport-start event carrying the tempo.
func NewTransportStart(timeline uint64, blockOffset uint32, source uint16, bpm float32) Event {
	e := Event{TimelineSample: timeline, BlockOffset: blockOffset, SourceID: source, Type: EventTransportStart}
	binary.LittleEndian.PutUint32(e.payload[:4], math.Float32bits(bpm))
	return e
}

// NewTransportStop returns a transport-stop event carrying the tempo.
func NewTransportStop(timeline uint64, blockOffset uint32, source uint16, bpm float32) Event {
	e := Event{TimelineSample: timeline, BlockOffset: blockOffset, SourceID: source, Type: EventTransportStop}
	binary.LittleEndian.PutUint32(e.payload[:4], math.Float32bits(bpm))
	return e
}

func (e *Event) putNote(track, note byte, velocity float32) {
	e.payload[0] = track
	e.payload[1] = note
	binary.LittleEndian.PutUint32(e.payload[4:], math.Float32bits(velocity))
}

// Note returns the note payload, or false if the event is not a note event.
func (e *Event) Note() (NotePayload, bool) {
	if e.Type != EventNoteOn && e.Type != EventNoteOff {
		return NotePayload{}, false
	}
	return NotePayload{
		Track:    e.payload[0],
		Note:     e.payload[1],
		Velocity: math.Float32frombits(binary.LittleEndian.Uint32(e.payload[4:])),
	}, true
}

// Trigger returns the trigger payload, or false if the event is not a step
// trigger.
func (e *Event) Trigger() (TriggerPayload, bool) {
	if e.Type != EventTrigger {
		return TriggerPayload{}, false
	}
	return TriggerPayload{
		Track:    e.payload[0],
		Step:     e.payload[1],
		Velocity: math.Float32frombits(binary.LittleEndian.Uint32(e.payload[4:])),
	}, true
}

// Transport returns the transport payload, or false if the event is not a
// transport event.
func (e *Event) Transport() (TransportPayload, bool) {
	if e.Type != EventTransportStart && e.Type != EventTransportStop {
		return TransportPayload{}, false
	}
	return TransportPayload{
		BPM: math.Float32frombits(binary.LittleEndian.Uint32(e.payload[:4])),
	}, true
}

// MarshalBinary encodes the event into its EventSize-byte wire form.
func (e *Event) MarshalBinary() ([]byte, error) {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint64(b[eventTimelineOffset:], e.TimelineSample)
	binary.LittleEndian.PutUint32(b[eventBlockOffset:], e.BlockOffset)
	binary.LittleEndian.PutUint16(b[eventSourceOffset:], e.SourceID)
	binary.LittleEndian.PutUint32(b[eventTypeOffset:], uint32(e.Type))
	copy(b[eventPayloadOffset:], e.payload[:])
	return b, nil
}

// UnmarshalBinary decodes an EventSize-byte wire form.
func (e *Event) UnmarshalBinary(data []byte) error {
	if len(data) != EventSize {
		return errors.New("abi: event record must be exactly 32 bytes")
	}
	e.TimelineSample = binary.LittleEndian.Uint64(data[eventTimelineOffset:])
	e.BlockOffset = binary.LittleEndian.Uint32(data[eventBlockOffset:])
	e.SourceID = binary.LittleEndian.Uint16(data[eventSourceOffset:])
	e.Type = EventType(binary.LittleEndian.Uint32(data[eventTypeOffset:]))
	copy(e.payload[:], data[eventPayloadOffset:eventPayloadOffset+eventPayloadSize])
	return nil
}

// MarshalBinary encodes the update into its ParameterUpdateSize-byte wire
// form.
func (u *ParameterUpdate) MarshalBinary() ([]byte, error) {
	b := make([]byte, ParameterUpdateSize)
	binary.LittleEndian.PutUint32(b[0:], u.ParameterID)
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(u.NormalizedValue))
	binary.LittleEndian.PutUint32(b[8:], u.RampSamples)
	binary.LittleEndian.PutUint32(b[12:], u.Reserved)
	return b, nil
}

// UnmarshalBinary decodes a ParameterUpdateSize-byte wire form.
func (u *ParameterUpdate) UnmarshalBinary(data []byte) error {
	if len(data) != ParameterUpdateSize {
		return errors.New("abi: parameter update record must be exactly 16 bytes")
	}
	u.ParameterID = binary.LittleEndian.Uint32(data[0:])
	u.NormalizedValue = math.Float32frombits(binary.LittleEndian.Uint32(data[4:]))
	u.RampSamples = binary.LittleEndian.Uint32(data[8:])
	u.Reserved = binary.LittleEndian.Uint32(data[12:])
	return nil
}
