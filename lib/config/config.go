/*package config reads toftable's two input files: the run config, an
INI-style file read with gcfg, and the instrument file, a YAML description of
the recorders along the beamline.
*/
package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/toftable/lib/format"
	"github.com/phil-mansfield/toftable/lib/thread"
	"github.com/phil-mansfield/toftable/lib/tofio"
)

// Config is the contents of a run config file.
type Config struct {
	Table struct {
		Bins       int
		TMin, TMax float64
	}
	Run struct {
		Particles int64
		Threads   int
		Seeds     string
		Output    string
		Layout    string
		Compress  bool
		Precision int
		Archive   string
		Metrics   string
	}
	Source struct {
		Velocity, VelocitySpread float64
		TZero, Weight            float64
		Instrument               string
	}
}

// Default returns a Config with every optional variable set to its default.
func Default() *Config {
	c := &Config{ }
	c.Table.Bins = 100
	c.Table.TMin, c.Table.TMax = 0, 0.01
	c.Run.Particles = 100000
	c.Run.Threads = -1
	c.Run.Seeds = "0"
	c.Run.Output = "tof_{%d:seed}.json"
	c.Run.Layout = "legacy"
	c.Run.Precision = tofio.DefaultPrecision
	c.Source.Velocity = 1000
	c.Source.Weight = 1
	c.Source.Instrument = "instrument.yaml"
	return c
}

// ReadConfig reads a config file on top of the defaults. Unknown sections
// and variables are errors.
func ReadConfig(fileName string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, fileName); err != nil {
		return nil, fmt.Errorf("Could not read config file '%s': %w",
			fileName, err)
	}
	return c, nil
}

// ParseConfig reads config text on top of the defaults.
func ParseConfig(text string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, text); err != nil {
		return nil, err
	}
	return c, nil
}

// Check validates every variable. It does not touch any files.
func (c *Config) Check() error {
	errs := []string{ }
	add := func(msg string, a ...interface{}) {
		errs = append(errs, fmt.Sprintf(msg, a...))
	}

	if c.Table.Bins < 1 {
		add("Table.Bins = %d, but it must be at least 1.", c.Table.Bins)
	}
	if !finite(c.Table.TMin) || !finite(c.Table.TMax) ||
		c.Table.TMax <= c.Table.TMin {
		add("Table.TMax = %g must be larger than Table.TMin = %g.",
			c.Table.TMax, c.Table.TMin)
	}

	if c.Run.Particles < 0 {
		add("Run.Particles = %d, but it cannot be negative.", c.Run.Particles)
	}
	if _, err := thread.Resolve(c.Run.Threads); err != nil {
		add("Run.Threads: %s", err.Error())
	}
	if _, err := c.Seeds(); err != nil {
		add("Run.Seeds = '%s' is not a valid sequence. %s",
			c.Run.Seeds, err.Error())
	}
	if _, err := c.OutputName(0, "instrument"); err != nil {
		add("Run.Output = '%s' is not a valid file format. %s",
			c.Run.Output, err.Error())
	}
	if _, err := c.Layout(); err != nil {
		add("Run.Layout: %s", err.Error())
	}
	if c.Run.Precision == 0 || c.Run.Precision > 17 {
		add("Run.Precision = %d, but it must be in [1, 17] or negative.",
			c.Run.Precision)
	}

	if !finite(c.Source.Velocity) || c.Source.Velocity <= 0 {
		add("Source.Velocity = %g, but it must be positive.",
			c.Source.Velocity)
	}
	if !(c.Source.VelocitySpread >= 0 && c.Source.VelocitySpread < 1) {
		add("Source.VelocitySpread = %g, but it must be in [0, 1).",
			c.Source.VelocitySpread)
	}
	if !finite(c.Source.TZero) {
		add("Source.TZero = %g, but it must be finite.", c.Source.TZero)
	}
	if !finite(c.Source.Weight) {
		add("Source.Weight = %g, but it must be finite.", c.Source.Weight)
	}
	if c.Source.Instrument == "" {
		add("Source.Instrument must be set.")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}

// Seeds expands Run.Seeds.
func (c *Config) Seeds() ([]int, error) {
	return format.ExpandSequenceFormat(c.Run.Seeds)
}

// Layout parses Run.Layout.
func (c *Config) Layout() (tofio.Layout, error) {
	return tofio.ParseLayout(c.Run.Layout)
}

// OutputName expands Run.Output for one seed. The format may use the
// variables "seed" and "instrument". If Run.Compress is set and the name
// doesn't already end in ".zst", the suffix is appended.
func (c *Config) OutputName(seed int, instrument string) (string, error) {
	name, err := format.ExpandFileFormat(c.Run.Output, map[string]interface{}{
		"seed": seed, "instrument": instrument,
	})
	if err != nil { return "", err }
	if c.Run.Compress && !strings.HasSuffix(name, tofio.CompressedSuffix) {
		name += tofio.CompressedSuffix
	}
	return name, nil
}

// InstrumentPath returns the location of the instrument file. Relative
// paths are relative to the directory holding the config file.
func (c *Config) InstrumentPath(configFile string) string {
	if filepath.IsAbs(c.Source.Instrument) { return c.Source.Instrument }
	return filepath.Join(filepath.Dir(configFile), c.Source.Instrument)
}

// WriteOptions returns the output options for the table writer.
func (c *Config) WriteOptions() (tofio.Options, error) {
	layout, err := c.Layout()
	if err != nil { return tofio.Options{}, err }
	return tofio.Options{
		Layout: layout, Precision: c.Run.Precision, Compress: c.Run.Compress,
	}, nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
