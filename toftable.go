package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phil-mansfield/toftable/lib/archive"
	"github.com/phil-mansfield/toftable/lib/config"
	g_error "github.com/phil-mansfield/toftable/lib/error"
	"github.com/phil-mansfield/toftable/lib/metrics"
	"github.com/phil-mansfield/toftable/lib/sim"
	"github.com/phil-mansfield/toftable/lib/stats"
	"github.com/phil-mansfield/toftable/lib/thread"
	"github.com/phil-mansfield/toftable/lib/tof"
	"github.com/phil-mansfield/toftable/lib/tofio"
)

func main() {
	if len(os.Args) < 2 {
		PrintHelp(os.Stderr)
		g_error.External("No mode was given.")
		return
	}

	mode, args := os.Args[1], os.Args[2:]
	var err error
	switch mode {
	case "help":
		PrintHelp(os.Stdout)
	case "check":
		if err = needArgs(mode, args, 1); err == nil {
			if _, _, err = Check(args[0]); err == nil {
				fmt.Println("No errors detected.")
			}
		}
	case "run":
		if err = needArgs(mode, args, 1); err == nil {
			err = Run(context.Background(), args[0])
		}
	case "example_config":
		dir := "."
		if len(args) > 0 { dir = args[0] }
		err = ExampleConfig(dir)
	case "summary":
		if err = needArgs(mode, args, 1); err == nil {
			err = Summary(os.Stdout, args[0])
		}
	case "list":
		if err = needArgs(mode, args, 1); err == nil {
			err = List(context.Background(), os.Stdout, args[0])
		}
	default:
		g_error.External(
			"You attempted to run toftable in the mode '%s', but the only "+
				"valid modes are 'help', 'check', 'run', 'example_config', "+
				"'summary', and 'list'.", mode,
		)
		return
	}

	if err != nil { g_error.External("%s", err.Error()) }
}

func needArgs(mode string, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("The '%s' mode needs %d argument(s), but got %d. "+
			"Run 'toftable help' for usage.", mode, n, len(args))
	}
	return nil
}

// PrintHelp prints the usage message.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `toftable simulates a time-of-flight instrument and writes
one histogram table per seed.

Usage:
./toftable help
./toftable check <ConfigName>
./toftable run <ConfigName>
./toftable example_config [Directory]
./toftable summary <TableFile>
./toftable list <ArchiveDatabase>

- <ConfigName> is a run config file. 'example_config' writes a commented
  example, run.config, and the instrument file it refers to.
- <TableFile> is a table written by 'run', compressed or not, in either
  layout.
- <ArchiveDatabase> is the sqlite file named by a config's Run.Archive.
`)
}

// Check reads and validates a config file and the instrument it refers to.
func Check(confName string) (*config.Config, *config.Instrument, error) {
	conf, err := config.ReadConfig(confName)
	if err != nil { return nil, nil, err }
	if err := conf.Check(); err != nil {
		return nil, nil, fmt.Errorf("The config file '%s' has errors:\n%s",
			confName, err.Error())
	}

	inst, err := config.ReadInstrumentFile(conf.InstrumentPath(confName))
	if err != nil { return nil, nil, err }
	if err := inst.Check(); err != nil {
		return nil, nil, fmt.Errorf("The instrument file '%s' has errors: %s",
			conf.InstrumentPath(confName), err.Error())
	}
	return conf, inst, nil
}

// Run runs every seed in a config file, writing one table per seed.
func Run(ctx context.Context, confName string) error {
	conf, inst, err := Check(confName)
	if err != nil { return err }

	threads, err := thread.Set(conf.Run.Threads)
	if err != nil { return err }
	seeds, _ := conf.Seeds()
	opt, _ := conf.WriteOptions()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if conf.Run.Metrics != "" {
		stop := serveMetrics(conf.Run.Metrics, reg)
		defer stop()
	}

	var store archive.Store
	if conf.Run.Archive != "" {
		store, err = archive.NewStore("sqlite", conf.Run.Archive)
		if err != nil { return err }
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("Could not open archive '%s': %w",
				conf.Run.Archive, err)
		}
		defer store.Close()
	}

	m := tof.NewManager()
	m.SetObserver(collector)
	l, err := sim.Setup(m, inst)
	if err != nil { return err }
	defer m.Free()

	log.Printf("Running instrument '%s' with %d recorders, %s particles per "+
		"seed, %d seed(s) and %d thread(s).", inst.Name, m.NRecorders(),
		humanize.Comma(conf.Run.Particles), len(seeds), threads)

	for _, seed := range seeds {
		start := time.Now()
		tab, err := sim.Run(ctx, m, l, sim.ParamsFromConfig(conf, threads, seed))
		collector.ObserveRun(time.Since(start), err)
		if err != nil { return fmt.Errorf("Seed %d failed: %w", seed, err) }

		outName, _ := conf.OutputName(seed, inst.Name)
		if dir := filepath.Dir(outName); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil { return err }
		}
		if err := tofio.WriteFile(outName, m.Recorders(), tab, opt); err != nil {
			return err
		}

		size := int64(0)
		if fi, err := os.Stat(outName); err == nil { size = fi.Size() }
		log.Printf("Seed %d: wrote %s (%s) in %s.", seed, outName,
			humanize.Bytes(uint64(size)), time.Since(start).Round(time.Millisecond))

		if store != nil {
			id, err := store.Save(ctx, &archive.Run{
				Instrument: inst.Name, Seed: int64(seed),
				Particles: conf.Run.Particles,
				Recorders: m.Recorders(), Table: tab,
			})
			if err != nil { return fmt.Errorf("Could not archive seed %d: %w", seed, err) }
			log.Printf("Seed %d: archived as %s.", seed, id)
		}
	}

	return nil
}

// serveMetrics serves reg at addr/metrics until the returned function is
// called.
func serveMetrics(addr string, reg *prometheus.Registry) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{ Addr: addr, Handler: mux }

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("ERROR: metrics server on %s stopped: %s", addr, err.Error())
		}
	}()
	log.Printf("Serving metrics at http://%s/metrics.", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

// ExampleConfig writes run.config and instrument.yaml to dir. Existing files
// are not overwritten.
func ExampleConfig(dir string) error {
	files := []struct{ name, text string } {
		{"run.config", config.ExampleConfig},
		{"instrument.yaml", config.ExampleInstrument},
	}
	for _, f := range files {
		name := filepath.Join(dir, f.name)
		if _, err := os.Stat(name); err == nil {
			return fmt.Errorf("The file '%s' already exists.", name)
		}
	}
	for _, f := range files {
		name := filepath.Join(dir, f.name)
		if err := os.WriteFile(name, []byte(f.text), 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", name)
	}
	return nil
}

// Summary prints per-recorder statistics for a table file.
func Summary(w io.Writer, fileName string) error {
	ds, err := tofio.ReadFile(fileName)
	if err != nil { return err }
	tab := ds.Table

	fmt.Fprintf(w, "%s: %s layout, %d recorders, %d bins over [%g, %g) s\n",
		fileName, ds.Layout, tab.Recorders(), tab.Bins(), tab.TMin(), tab.TMax())
	fmt.Fprintf(w, "%-16s %10s %14s %12s %14s %14s\n",
		"recorder", "distance", "samples", "weight", "mean time", "std time")
	for i, rec := range stats.Recorders(tab) {
		fmt.Fprintf(w, "%-16s %10.4g %14s %12.6g %14.6g %14.6g\n",
			ds.Recorders[i].Name, ds.Recorders[i].Distance,
			humanize.Comma(rec.Count), rec.Weight, rec.MeanTime, rec.StdTime)
	}
	return nil
}

// List prints every run stored in an archive database.
func List(ctx context.Context, w io.Writer, dbName string) error {
	if _, err := os.Stat(dbName); err != nil { return err }
	store, err := archive.NewStore("sqlite", dbName)
	if err != nil { return err }
	if err := store.Init(ctx); err != nil { return err }
	defer store.Close()

	runs, err := store.List(ctx)
	if err != nil { return err }
	fmt.Fprintf(w, "%-36s %-20s %6s %14s %10s  %s\n",
		"id", "instrument", "seed", "particles", "size", "created")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s %-20s %6d %14s %10s  %s\n", r.ID, r.Instrument,
			r.Seed, humanize.Comma(r.Particles),
			humanize.Bytes(uint64(r.PayloadSize)),
			r.Created.Local().Format(time.RFC3339))
	}
	return nil
}
