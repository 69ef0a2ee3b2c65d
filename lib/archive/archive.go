/*package archive stores finished time-of-flight tables so that runs can be
listed and reloaded later. Tables are stored as zstd-compressed documents
written with full float precision.
*/
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/phil-mansfield/toftable/lib/table"
	"github.com/phil-mansfield/toftable/lib/tof"
	"github.com/phil-mansfield/toftable/lib/tofio"
)

// ErrNotInitialized is returned by stores that are used before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Run is a single archived table.
type Run struct {
	// ID is assigned by Save if it is empty.
	ID         string
	Instrument string
	Seed       int64
	Particles  int64
	Created    time.Time

	Recorders []tof.Recorder
	Table     *table.Table
}

// Summary describes an archived Run without decoding its table.
type Summary struct {
	ID          string
	Instrument  string
	Seed        int64
	Particles   int64
	Created     time.Time
	PayloadSize int
}

// Store is a collection of archived runs.
type Store interface {
	Init(ctx context.Context) error
	// Save stores run, overwriting any run with the same ID, and returns
	// the ID it was stored under.
	Save(ctx context.Context, run *Run) (string, error)
	// Load returns false if no run has the given ID.
	Load(ctx context.Context, id string) (*Run, bool, error)
	// List returns every run in order of creation.
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

// NewStore returns a memory store for kind "" or "memory" and an sqlite
// store at path for kind "sqlite".
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	}
	return nil, fmt.Errorf("unsupported store backend: %s", kind)
}

// prepare assigns an ID and creation time where they are missing and checks
// that the run can be encoded.
func prepare(run *Run) error {
	if run.Table == nil {
		return errors.New("run has no table")
	}
	if len(run.Recorders) != run.Table.Recorders() {
		return fmt.Errorf("run has %d recorders but its table has %d",
			len(run.Recorders), run.Table.Recorders())
	}
	if run.ID == "" { run.ID = uuid.NewString() }
	if run.Created.IsZero() { run.Created = time.Now().UTC() }
	return nil
}

func encodeTable(run *Run) ([]byte, error) {
	opt := tofio.Options{Layout: tofio.ScippLayout, Precision: -1}
	return tofio.Marshal(run.Recorders, run.Table, opt, true)
}

func decodeTable(payload []byte, run *Run) error {
	ds, err := tofio.Unmarshal(payload)
	if err != nil { return err }
	run.Recorders, run.Table = ds.Recorders, ds.Table
	return nil
}
