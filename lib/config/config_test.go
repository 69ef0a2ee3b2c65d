package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phil-mansfield/toftable/lib/eq"
	"github.com/phil-mansfield/toftable/lib/tofio"
)

func TestExampleConfig(t *testing.T) {
	c, err := ParseConfig(ExampleConfig)
	if err != nil {
		t.Fatalf("Expected example config to parse, got '%s'.", err.Error())
	}
	if err := c.Check(); err != nil {
		t.Errorf("Expected example config to pass Check, got:\n%s", err.Error())
	}

	seeds, _ := c.Seeds()
	if !eq.Ints(seeds, []int{0, 1, 2, 3}) {
		t.Errorf("Expected seeds [0 1 2 3], got %d.", seeds)
	}
	if c.Table.Bins != 100 || c.Table.TMax != 0.01 || c.Run.Particles != 100000 {
		t.Errorf("Unexpected values in %+v.", c)
	}

	inst, err := ReadInstrument(strings.NewReader(ExampleInstrument))
	if err != nil {
		t.Fatalf("Expected example instrument to parse, got '%s'.", err.Error())
	}
	if err := inst.Check(); err != nil {
		t.Errorf("Expected example instrument to pass Check, got '%s'.",
			err.Error())
	}
	if inst.Name != "TrivialTofTable" || inst.ManagerIndex != 9 ||
		len(inst.Recorders) != 3 || inst.Recorders[2].Distance != 5 {
		t.Errorf("Unexpected instrument %+v.", inst)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig("[Table]\nBins = 7\n")
	if err != nil { t.Fatalf("Expected config to parse, got '%s'.", err.Error()) }
	if c.Table.Bins != 7 || c.Table.TMax != Default().Table.TMax ||
		c.Run.Threads != -1 || c.Run.Layout != "legacy" {
		t.Errorf("Expected defaults to fill unset variables, got %+v.", c)
	}

	if _, err := ParseConfig("[Table]\nBinz = 7\n"); err == nil {
		t.Errorf("Expected an unknown variable to be an error.")
	}
	if _, err := ParseConfig("[Table]\nBins = seven\n"); err == nil {
		t.Errorf("Expected a malformed integer to be an error.")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct{
		edit func(c *Config)
		valid bool
	} {
		{func(c *Config) { }, true},
		{func(c *Config) { c.Table.Bins = 0 }, false},
		{func(c *Config) { c.Table.TMax = c.Table.TMin }, false},
		{func(c *Config) { c.Run.Particles = -1 }, false},
		{func(c *Config) { c.Run.Particles = 0 }, true},
		{func(c *Config) { c.Run.Threads = 0 }, false},
		{func(c *Config) { c.Run.Seeds = "3..1" }, false},
		{func(c *Config) { c.Run.Output = "tof_{%d:run}.json" }, false},
		{func(c *Config) { c.Run.Output = "tof.json" }, true},
		{func(c *Config) { c.Run.Layout = "scipp" }, true},
		{func(c *Config) { c.Run.Layout = "xml" }, false},
		{func(c *Config) { c.Run.Precision = 0 }, false},
		{func(c *Config) { c.Run.Precision = -1 }, true},
		{func(c *Config) { c.Source.Velocity = 0 }, false},
		{func(c *Config) { c.Source.VelocitySpread = 1 }, false},
		{func(c *Config) { c.Source.VelocitySpread = 0.5 }, true},
		{func(c *Config) { c.Source.Instrument = "" }, false},
	}

	for i := range tests {
		c := Default()
		tests[i].edit(c)
		err := c.Check()
		if tests[i].valid && err != nil {
			t.Errorf("%d) Expected config to be valid, got '%s'.", i, err.Error())
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected config to be invalid.", i)
		}
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct{
		output string
		compress bool
		seed int
		name string
	} {
		{"tof_{%d:seed}.json", false, 3, "tof_3.json"},
		{"tof_{%d:seed}.json", true, 3, "tof_3.json.zst"},
		{"tof_{%d:seed}.json.zst", true, 3, "tof_3.json.zst"},
		{"{%s:instrument}_{%02d:seed}.json", false, 4, "Trivial_04.json"},
	}

	for i := range tests {
		c := Default()
		c.Run.Output, c.Run.Compress = tests[i].output, tests[i].compress
		name, err := c.OutputName(tests[i].seed, "Trivial")
		if err != nil {
			t.Errorf("%d) Expected no error, got '%s'.", i, err.Error())
		} else if name != tests[i].name {
			t.Errorf("%d) Expected '%s', got '%s'.", i, tests[i].name, name)
		}
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	confName := filepath.Join(dir, "run.config")
	instName := filepath.Join(dir, "instrument.yaml")
	os.WriteFile(confName, []byte(ExampleConfig), 0644)
	os.WriteFile(instName, []byte(ExampleInstrument), 0644)

	c, err := ReadConfig(confName)
	if err != nil { t.Fatalf("Expected ReadConfig to succeed, got '%s'.", err.Error()) }
	if path := c.InstrumentPath(confName); path != instName {
		t.Errorf("Expected instrument path '%s', got '%s'.", instName, path)
	}
	if _, err := ReadInstrumentFile(c.InstrumentPath(confName)); err != nil {
		t.Errorf("Expected ReadInstrumentFile to succeed, got '%s'.", err.Error())
	}

	opt, err := c.WriteOptions()
	if err != nil || opt.Layout != tofio.LegacyLayout || opt.Precision != 15 {
		t.Errorf("Unexpected write options %+v, %v.", opt, err)
	}

	if _, err := ReadConfig(filepath.Join(dir, "missing.config")); err == nil {
		t.Errorf("Expected an error reading a missing config file.")
	}
	if _, err := ReadInstrumentFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Expected an error reading a missing instrument file.")
	}
}

func TestInstrument(t *testing.T) {
	tests := []struct{
		text string
		parses, valid bool
	} {
		{"", true, true},
		{"name: empty\nrecorders: []\n", true, true},
		{"recorders:\n  - {name: a, distance: 1}\n  - {name: a, distance: 2}\n",
			true, false},
		{"recorders:\n  - {distance: 1}\n", true, false},
		{"manager_index: -1\n", true, false},
		{"fields: {time: x, weight: x}\n", true, false},
		{"recorder:\n  - {name: a, distance: 1}\n", false, false},
		{"recorders:\n  - {name: a, distance: far}\n", false, false},
	}

	for i := range tests {
		inst, err := ReadInstrument(strings.NewReader(tests[i].text))
		if tests[i].parses != (err == nil) {
			t.Errorf("%d) Expected parses = %v, got error %v.",
				i, tests[i].parses, err)
			continue
		} else if err != nil {
			continue
		}
		if err := inst.Check(); tests[i].valid != (err == nil) {
			t.Errorf("%d) Expected valid = %v, got error %v.",
				i, tests[i].valid, err)
		}
	}

	inst, _ := ReadInstrument(strings.NewReader("fields: {time: t}\n"))
	if inst.Fields.Time != "t" || inst.Fields.Weight != DefaultFields.Weight ||
		inst.Fields.Length != DefaultFields.Length {
		t.Errorf("Expected missing field names to default, got %+v.", inst.Fields)
	}

	b, err := inst.Marshal()
	if err != nil { t.Fatalf("Marshal failed: %s", err.Error()) }
	back, err := ReadInstrument(strings.NewReader(string(b)))
	if err != nil || back.Fields != inst.Fields {
		t.Errorf("Expected marshalled instrument to read back, got %+v, %v.",
			back, err)
	}
}
