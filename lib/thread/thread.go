/*package thread controls how many cores toftable runs on.
*/
package thread

import (
	"fmt"
	"runtime"
)

// Resolve converts a Threads setting into a thread count. -1 means one
// thread per core.
func Resolve(n int) (int, error) {
	if n == -1 { return runtime.NumCPU(), nil }
	if n < 1 {
		return 0, fmt.Errorf("%d threads requested. Threads must be positive "+
			"or -1.", n)
	} else if n > runtime.NumCPU() {
		return 0, fmt.Errorf("%d threads requested, but your system only has "+
			"%d cores. If you want toftable to use every core, set "+
			"Threads = -1.", n, runtime.NumCPU())
	}
	return n, nil
}

// Set resolves n and sets GOMAXPROCS to the result, which it returns.
func Set(n int) (int, error) {
	n, err := Resolve(n)
	if err != nil { return 0, err }
	runtime.GOMAXPROCS(n)
	return n, nil
}
