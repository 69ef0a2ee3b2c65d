package config

// ExampleConfig is a complete, commented run config file.
const ExampleConfig = `[Table]

# Bins is the number of time bins in every recorder's histogram.
Bins = 100

# TMin and TMax give the time range, in seconds, covered by the bins. Samples
# outside [TMin, TMax) are skipped.
TMin = 0
TMax = 0.01

[Run]

# Particles is the number of particles simulated for each seed.
Particles = 100000

# Number of threads to use. If set to -1, one thread will be used for each
# core.
Threads = -1

# Seeds is a sequence of random seeds. One table is written per seed. Ranges
# are written as 0..10 and individual seeds (or ranges) can be added with "+"
# and removed with "-", e.g. 0..10 - 3.
Seeds = 0..3

# Output is the file each table is written to. Variables are written as
# {verb:name}, where verb is a printf() verb and name is either "seed" or
# "instrument", e.g. runs/{%s:instrument}/tof_{%03d:seed}.json.
Output = tof_{%d:seed}.json

# Layout is the structure of the output file: "legacy" or "scipp".
Layout = legacy

# If Compress is true, output files are zstd-compressed and ".zst" is
# appended to their names.
Compress = false

# Precision is the number of significant digits written for floats. Negative
# values write the shortest exact representation.
Precision = 15

# Archive is an optional sqlite database that every table is also saved to.
# Archive = runs.db

# Metrics is an optional address, e.g. localhost:9090, that serves Prometheus
# metrics at /metrics while the run is going.
# Metrics = localhost:9090

[Source]

# Particles leave the source at TZero with speed Velocity (m/s). Each
# particle's speed is drawn uniformly from Velocity*(1 +/- VelocitySpread).
Velocity = 1000
VelocitySpread = 0
TZero = 0

# Weight is the statistical weight carried by each particle.
Weight = 1

# Instrument is the YAML file describing the recorders. Relative paths are
# relative to this file.
Instrument = instrument.yaml
`

// ExampleInstrument is a complete instrument file matching ExampleConfig.
const ExampleInstrument = `# name is printed in logs and stored in archives.
name: TrivialTofTable

# Recorder buffers are stored in the particle fields <field>_<manager_index>.
manager_index: 9
fields:
  time: table_manager_t
  weight: table_manager_p
  length: table_manager_n

# Each recorder stamps a particle's time when it has travelled distance (m).
recorders:
  - {name: rec1, distance: 1.0}
  - {name: rec2, distance: 2.0}
  - {name: rec3, distance: 5.0}
`
