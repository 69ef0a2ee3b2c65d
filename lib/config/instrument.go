package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fields gives the base names of the three per-particle buffer fields.
// The manager index is appended to each.
type Fields struct {
	Time   string `yaml:"time"`
	Weight string `yaml:"weight"`
	Length string `yaml:"length"`
}

// Recorder is a single recorder in an instrument file.
type Recorder struct {
	Name     string  `yaml:"name"`
	Distance float64 `yaml:"distance"`
}

// Instrument is the contents of an instrument file.
type Instrument struct {
	Name         string     `yaml:"name"`
	ManagerIndex int        `yaml:"manager_index"`
	Fields       Fields     `yaml:"fields"`
	Recorders    []Recorder `yaml:"recorders"`
}

// DefaultFields are used for any field name an instrument file leaves out.
var DefaultFields = Fields{
	Time: "table_manager_t", Weight: "table_manager_p", Length: "table_manager_n",
}

// ReadInstrument decodes an instrument from r. Unknown keys are errors.
func ReadInstrument(r io.Reader) (*Instrument, error) {
	inst := &Instrument{ Fields: DefaultFields }
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(inst); err != nil && err != io.EOF {
		return nil, err
	}

	if inst.Fields.Time == "" { inst.Fields.Time = DefaultFields.Time }
	if inst.Fields.Weight == "" { inst.Fields.Weight = DefaultFields.Weight }
	if inst.Fields.Length == "" { inst.Fields.Length = DefaultFields.Length }
	return inst, nil
}

// ReadInstrumentFile decodes the instrument file fileName.
func ReadInstrumentFile(fileName string) (*Instrument, error) {
	f, err := os.Open(fileName)
	if err != nil { return nil, err }
	defer f.Close()

	inst, err := ReadInstrument(f)
	if err != nil {
		return nil, fmt.Errorf("Could not read instrument file '%s': %w",
			fileName, err)
	}
	return inst, nil
}

// Check validates the instrument. An instrument with no recorders is valid.
func (inst *Instrument) Check() error {
	if inst.ManagerIndex < 0 {
		return fmt.Errorf("manager_index = %d, but it cannot be negative.",
			inst.ManagerIndex)
	}
	f := inst.Fields
	if f.Time == f.Weight || f.Time == f.Length || f.Weight == f.Length {
		return fmt.Errorf("The buffer fields must have different names, "+
			"but got '%s', '%s' and '%s'.",
			f.Time, f.Weight, f.Length)
	}

	seen := map[string]bool{ }
	for i, rec := range inst.Recorders {
		if rec.Name == "" {
			return fmt.Errorf("Recorder %d has no name.", i)
		} else if seen[rec.Name] {
			return fmt.Errorf("The recorder name '%s' is used more than once.",
				rec.Name)
		} else if !finite(rec.Distance) {
			return fmt.Errorf("Recorder '%s' has distance %g, but it must be "+
				"finite.", rec.Name, rec.Distance)
		}
		seen[rec.Name] = true
	}
	return nil
}

// Marshal encodes the instrument as YAML.
func (inst *Instrument) Marshal() ([]byte, error) {
	return yaml.Marshal(inst)
}
