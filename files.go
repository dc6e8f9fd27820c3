package forestfloor

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReadProject parses a stored project. Both interchange forms load: JSON is
// tried first, then YAML, mirroring how song files are read elsewhere in the
// ecosystem. Out-of-range tempo, swing, velocity and choke values in old
// files are clamped into range rather than rejected, so a project that loaded
// yesterday still loads today.
func ReadProject(r io.Reader) (Project, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Project{}, fmt.Errorf("reading project: %v", err)
	}
	var project Project
	if errJSON := json.Unmarshal(b, &project); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &project); errYaml != nil {
			return Project{}, fmt.Errorf("unmarshaling project: %v / %v", errYaml, errJSON)
		}
	}
	clampProject(&project)
	logrus.WithFields(logrus.Fields{
		"project":  project.Name,
		"kits":     len(project.Kits),
		"patterns": len(project.Patterns),
	}).Debug("project loaded")
	return project, nil
}

// WriteProject marshals the project as YAML. The output is deterministic:
// writing, reading back and writing again yields identical bytes for any
// project whose values are in range.
func WriteProject(w io.Writer, project Project) error {
	contents, err := yaml.Marshal(project)
	if err != nil {
		return fmt.Errorf("marshaling project: %v", err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("writing project: %v", err)
	}
	return nil
}

func clampProject(p *Project) {
	if p.BPM == 0 {
		p.BPM = DefaultBPM
	}
	p.BPM = ClampBPM(p.BPM)
	for i := range p.Patterns {
		pat := &p.Patterns[i]
		pat.Swing = ClampSwing(pat.Swing)
		for j := range pat.Steps {
			if pat.Steps[j].Velocity > 127 {
				pat.Steps[j].Velocity = 127
			}
		}
	}
	for i := range p.Kits {
		for j := range p.Kits[i].Tracks {
			track := &p.Kits[i].Tracks[j]
			if track.ChokeGroup < 0 {
				track.ChokeGroup = -1
			} else if track.ChokeGroup > 15 {
				track.ChokeGroup = 15
			}
		}
	}
}
