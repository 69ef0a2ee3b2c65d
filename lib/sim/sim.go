/*package sim runs the trivial time-of-flight source: particles leave the
origin at TZero and travel in a straight line, and the recorder at distance
d stamps each one at TZero + d/v. It drives a tof.Manager through the same
allocate, record, transfer and free cycle a host simulation would.
*/
package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/toftable/lib/config"
	"github.com/phil-mansfield/toftable/lib/particles"
	"github.com/phil-mansfield/toftable/lib/table"
	"github.com/phil-mansfield/toftable/lib/tof"
)

// ChunkSize is the number of particles handled by one task. Each chunk has
// its own RNG, so a run's particles don't depend on the thread count.
const ChunkSize = 4096

// Source describes the particles emitted by the source.
type Source struct {
	// Velocity is in m/s. Each particle's speed is drawn uniformly from
	// Velocity*(1 +/- VelocitySpread).
	Velocity, VelocitySpread float64
	TZero, Weight            float64
}

// Params are the settings for a single run.
type Params struct {
	Particles int64
	Threads   int
	Seed      int64
	Source    Source

	Bins       int
	TMin, TMax float64
}

// ParamsFromConfig builds the Params for one seed of a run config.
func ParamsFromConfig(c *config.Config, threads, seed int) Params {
	return Params{
		Particles: c.Run.Particles,
		Threads:   threads,
		Seed:      int64(seed),
		Source: Source{
			Velocity: c.Source.Velocity, VelocitySpread: c.Source.VelocitySpread,
			TZero: c.Source.TZero, Weight: c.Source.Weight,
		},
		Bins: c.Table.Bins, TMin: c.Table.TMin, TMax: c.Table.TMax,
	}
}

// Setup allocates m's state, registers the instrument's recorders, and
// finalizes m against a particle layout holding the instrument's buffer
// fields. The layout is returned so that particles can be created from it.
func Setup(m *tof.Manager, inst *config.Instrument) (*particles.Layout, error) {
	if err := inst.Check(); err != nil { return nil, err }

	l := particles.NewLayout()
	for _, f := range []struct{
		base string
		kind particles.Kind
	} {
		{inst.Fields.Time, particles.Float64sKind},
		{inst.Fields.Weight, particles.Float64sKind},
		{inst.Fields.Length, particles.IntKind},
	} {
		if _, err := l.Add(tof.FieldName(f.base, inst.ManagerIndex), f.kind); err != nil {
			return nil, err
		}
	}

	if m.Exists() { m.Free() }
	m.Allocate()
	for _, rec := range inst.Recorders {
		if _, err := m.AddRecorder(rec.Name, rec.Distance); err != nil {
			return nil, err
		}
	}

	err := m.Finalize(inst.ManagerIndex, inst.Fields.Time, inst.Fields.Weight,
		inst.Fields.Length, l)
	if err != nil { return nil, err }
	return l, nil
}

// Run simulates p.Particles particles and returns the filled table. m must
// have been finalized against l. Particles are split into chunks that are
// processed by up to p.Threads goroutines, all writing into one table.
func Run(
	ctx context.Context, m *tof.Manager, l *particles.Layout, p Params,
) (*table.Table, error) {
	if p.Source.Velocity <= 0 {
		return nil, fmt.Errorf("Source velocity must be positive, got %g.",
			p.Source.Velocity)
	} else if p.Particles < 0 {
		return nil, fmt.Errorf("Cannot simulate %d particles.", p.Particles)
	}

	tab, err := m.NewTable(p.Bins, p.TMin, p.TMax)
	if err != nil { return nil, err }
	recs := m.Recorders()

	g, ctx := errgroup.WithContext(ctx)
	if p.Threads > 0 { g.SetLimit(p.Threads) }

	nChunks := (p.Particles + ChunkSize - 1) / ChunkSize
	for c := int64(0); c < nChunks; c++ {
		start, end := c*ChunkSize, (c+1)*ChunkSize
		if end > p.Particles { end = p.Particles }
		rng := NewRNG(chunkSeed(p.Seed, c))

		g.Go(func() error {
			if err := ctx.Err(); err != nil { return err }
			return runChunk(m, l.New(), rng, recs, tab, p.Source, end-start)
		})
	}

	if err := g.Wait(); err != nil { return nil, err }
	return tab, nil
}

// runChunk pushes n particles through the manager, reusing one record.
func runChunk(
	m *tof.Manager, part *particles.Particle, rng *RNG,
	recs []tof.Recorder, tab *table.Table, src Source, n int64,
) error {
	for k := int64(0); k < n; k++ {
		part.T, part.P = src.TZero, src.Weight
		if err := m.ParticleAlloc(part, src.TZero); err != nil { return err }

		v := src.Velocity
		if src.VelocitySpread > 0 {
			v *= 1 + src.VelocitySpread*(2*rng.Uniform() - 1)
		}

		for i := range recs {
			part.T = src.TZero + recs[i].Distance / v
			if err := m.ParticleRecord(part, i); err != nil { return err }
		}

		if err := m.ParticleToTable(part, tab); err != nil { return err }
		if err := m.ParticleFree(part); err != nil { return err }
	}
	return nil
}

func chunkSeed(seed, chunk int64) uint64 {
	return uint64(seed)*0x9e3779b97f4a7c15 ^ uint64(chunk+1)*0xbf58476d1ce4e5b9
}
