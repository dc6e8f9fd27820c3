package forestfloor

import (
	"bytes"
	"strings"
	"testing"
)

func demoProject() Project {
	kit := NewKit("default")
	kit.Tracks[0].SampleID = "kick"
	kit.Tracks[1].SampleID = "snare"
	kit.Tracks[1].Pan = -0.25
	kit.Tracks[1].ChokeGroup = 1

	pattern := NewPattern()
	pattern.Name = "intro"
	pattern.Swing = 0.1
	pattern.SetStep(0, 0, Step{Active: true, Velocity: 110})
	pattern.SetStep(1, 4, Step{Active: true, Velocity: 90})

	active := 0
	return Project{
		Name:          "demo",
		BPM:           128,
		Kits:          []Kit{kit},
		ActiveKit:     &active,
		Patterns:      []Pattern{pattern},
		ActivePattern: &active,
	}
}

func TestWriteReadRoundTripIsByteIdentical(t *testing.T) {
	project := demoProject()
	var first bytes.Buffer
	if err := WriteProject(&first, project); err != nil {
		t.Fatalf("WriteProject error: %v", err)
	}
	back, err := ReadProject(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("ReadProject error: %v", err)
	}
	var second bytes.Buffer
	if err := WriteProject(&second, back); err != nil {
		t.Fatalf("WriteProject error: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("round trip changed the file\nfirst:\n%s\nsecond:\n%s", first.Bytes(), second.Bytes())
	}
}

func TestReadProjectAcceptsJSON(t *testing.T) {
	project, err := ReadProject(strings.NewReader(`{"name": "json demo", "bpm": 90}`))
	if err != nil {
		t.Fatalf("ReadProject error: %v", err)
	}
	if project.Name != "json demo" || project.BPM != 90 {
		t.Fatalf("unexpected project %#v", project)
	}
}

func TestReadProjectRejectsGarbage(t *testing.T) {
	if _, err := ReadProject(strings.NewReader("\x00\x01 not a project {")); err == nil {
		t.Fatal("garbage input accepted")
	}
}

func TestReadProjectClampsOutOfRangeValues(t *testing.T) {
	wild := demoProject()
	wild.BPM = 1000
	wild.Patterns[0].Swing = 0.9
	wild.Patterns[0].Steps[0] = Step{Active: true, Velocity: 200}
	wild.Kits[0].Tracks[0].ChokeGroup = 99
	wild.Kits[0].Tracks[1].ChokeGroup = -5

	var buf bytes.Buffer
	if err := WriteProject(&buf, wild); err != nil {
		t.Fatalf("WriteProject error: %v", err)
	}
	project, err := ReadProject(&buf)
	if err != nil {
		t.Fatalf("ReadProject error: %v", err)
	}
	if project.BPM != MaxBPM {
		t.Errorf("got BPM %v, want %v", project.BPM, MaxBPM)
	}
	if got := project.Patterns[0].Swing; got != MaxSwing {
		t.Errorf("got swing %v, want %v", got, MaxSwing)
	}
	if got := project.Patterns[0].Steps[0].Velocity; got != 127 {
		t.Errorf("got velocity %d, want 127", got)
	}
	if got := project.Kits[0].Tracks[0].ChokeGroup; got != 15 {
		t.Errorf("got choke group %d, want 15", got)
	}
	if got := project.Kits[0].Tracks[1].ChokeGroup; got != -1 {
		t.Errorf("got choke group %d, want -1", got)
	}
}

func TestReadProjectDefaultsMissingBPM(t *testing.T) {
	project, err := ReadProject(strings.NewReader("name: silent"))
	if err != nil {
		t.Fatalf("ReadProject error: %v", err)
	}
	if project.BPM != DefaultBPM {
		t.Fatalf("got BPM %v, want %v", project.BPM, DefaultBPM)
	}
}
