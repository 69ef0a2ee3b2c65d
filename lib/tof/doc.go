/*package tof manages time-of-flight recording for particles flowing through
a simulated instrument.

A run goes through four phases:

  1. Setup. The run loop creates a Manager, calls Allocate, and registers
     every recorder with AddRecorder. Each recorder receives a sequential
     index.
  2. Finalize. Finalize resolves the three per-particle fields that back a
     particle's sample buffer (time array, weight array, and length) to
     slots in the host's particle record. After this the Manager is only
     read, and may be shared between goroutines without locking.
  3. Particles. Each particle gets a buffer with ParticleAlloc, is stamped
     by recorders with ParticleRecord, and is folded into a shared
     table.Table with ParticleToTable before ParticleFree releases the
     buffer.
  4. Teardown. Free releases the recorder registry.

Failures are returned as errors wrapping one of the package's sentinel
errors. Conditions that are only diagnostic (allocating twice, freeing
nothing) are logged and otherwise ignored.
*/
package tof
