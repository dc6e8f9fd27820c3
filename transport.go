package forestfloor

// Transport holds the playback state shared between the control surface and
// the sequencer: tempo in beats per minute and whether playback is running.
type Transport struct {
	BPM       float64
	IsPlaying bool
}

// DefaultTransport returns a stopped transport at the default tempo.
func DefaultTransport() Transport {
	return Transport{BPM: DefaultBPM}
}

// SetBPM sets the tempo, clamped to [MinBPM, MaxBPM].
func (t *Transport) SetBPM(bpm float64) {
	t.BPM = ClampBPM(bpm)
}
