package forestfloor

import "testing"

func TestPatternStepBounds(t *testing.T) {
	p := NewPattern()
	if !p.SetStep(NumTracks-1, NumSteps-1, Step{Active: true, Velocity: 127}) {
		t.Fatal("last cell rejected")
	}
	cell, ok := p.Step(NumTracks-1, NumSteps-1)
	if !ok || !cell.Active || cell.Velocity != 127 {
		t.Fatalf("got cell %#v", cell)
	}
	for _, bad := range [][2]int{{-1, 0}, {0, -1}, {NumTracks, 0}, {0, NumSteps}} {
		if _, ok := p.Step(bad[0], bad[1]); ok {
			t.Errorf("Step(%d, %d) accepted", bad[0], bad[1])
		}
		if p.SetStep(bad[0], bad[1], Step{Active: true}) {
			t.Errorf("SetStep(%d, %d) accepted", bad[0], bad[1])
		}
	}
}

func TestNewPatternDefaults(t *testing.T) {
	p := NewPattern()
	for track := 0; track < NumTracks; track++ {
		for step := 0; step < NumSteps; step++ {
			cell, ok := p.Step(track, step)
			if !ok || cell != DefaultStep() {
				t.Fatalf("cell (%d, %d) = %#v, want default", track, step, cell)
			}
		}
	}
}

func TestSetSwingClamps(t *testing.T) {
	var p Pattern
	p.SetSwing(0.7)
	if p.Swing != MaxSwing {
		t.Errorf("got swing %v, want %v", p.Swing, MaxSwing)
	}
	p.SetSwing(-0.1)
	if p.Swing != 0 {
		t.Errorf("got swing %v, want 0", p.Swing)
	}
}

func TestClampBPM(t *testing.T) {
	if got := ClampBPM(5); got != MinBPM {
		t.Errorf("got %v, want %v", got, MinBPM)
	}
	if got := ClampBPM(5000); got != MaxBPM {
		t.Errorf("got %v, want %v", got, MaxBPM)
	}
	if got := ClampBPM(174); got != 174 {
		t.Errorf("got %v, want 174", got)
	}
}

func TestProjectCopyIsDeep(t *testing.T) {
	original := demoProject()
	copied := original.Copy()

	copied.Kits[0].Tracks[0].SampleID = "changed"
	copied.Patterns[0].SetStep(0, 0, Step{Active: false, Velocity: 1})
	*copied.ActiveKit = 7

	if original.Kits[0].Tracks[0].SampleID != "kick" {
		t.Error("kit mutation leaked into the original")
	}
	if cell, _ := original.Patterns[0].Step(0, 0); !cell.Active {
		t.Error("pattern mutation leaked into the original")
	}
	if *original.ActiveKit != 0 {
		t.Error("active index mutation leaked into the original")
	}
}
