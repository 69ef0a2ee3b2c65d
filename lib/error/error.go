/*package error contains simple functions for reporting toftable errors from
the command line tool. Library packages return errors instead of calling
these.
*/
package error

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

// Exit is called after an error is reported. Tests may replace it.
var Exit = os.Exit

// External reports an error to stderr and exits. It should be used when the
// user could reasonably be expected to fix the error by changing their
// config files, input data, or environment. It has the same signature as the
// standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	log.Printf("toftable exited early with the following error:\n" + format, a...)
	Exit(1)
}

// Internal reports an error to stderr along with a stack trace and exits.
// It should be used when the error requires a code dive to fix.
func Internal(format string, a ...interface{}) {
	log.Println("toftable exited early with the following error:")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n\n")
	debug.PrintStack()
	Exit(1)
}
