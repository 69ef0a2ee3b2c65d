package tof

import (
	"fmt"

	"github.com/phil-mansfield/toftable/lib/table"
)

// Observer is told about the outcome of every ParticleToTable call. It is
// called from whichever goroutine performed the transfer, so implementations
// must be safe for concurrent use.
type Observer interface {
	// Transferred reports a successful transfer in which binned samples
	// landed in the table and skipped samples fell outside its time range.
	Transferred(binned, skipped int)
	// TransferFailed reports a transfer that was rejected.
	TransferFailed(err error)
}

type nopObserver struct{}

func (nopObserver) Transferred(binned, skipped int) {}
func (nopObserver) TransferFailed(err error)        {}

// ParticleToTable folds p's sample buffer into tab. p's buffer must have
// exactly tab.Recorders() slots. Samples whose times fall outside the
// table's range are skipped; this is not an error. Safe for concurrent use
// on the same table.
func (m *Manager) ParticleToTable(p Particle, tab *table.Table) error {
	ts, ws, n, err := m.buffer(p)
	if err != nil {
		err = fmt.Errorf("could not transfer particle: %w", err)
		m.obs.TransferFailed(err)
		return err
	}
	if *n != tab.Recorders() || len(*ts) != *n || len(*ws) != *n {
		err = fmt.Errorf("could not transfer particle with %d recorders "+
			"into a table with %d recorders: %w",
			*n, tab.Recorders(), ErrRecorderMismatch)
		m.obs.TransferFailed(err)
		return err
	}

	binned, err := tab.AddSamples(*ts, *ws)
	if err != nil {
		err = fmt.Errorf("could not transfer particle: %w", err)
		m.obs.TransferFailed(err)
		return err
	}
	m.obs.Transferred(binned, *n-binned)
	return nil
}
