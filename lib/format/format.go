/*package format handles toftable's two small formatting languages: sequence
formats for lists of seeds and file formats for output file names, e.g.

   Seeds = 0..100 - 63
   Output = runs/{%s:instrument}/tof_{%04d:seed}.json

Sequence formats describe non-contiguous sets of natural numbers. They are a
series of tokens separated by "+" or "-", where each token is a number or two
numbers separated by "..", an inclusive range:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

Every addition is applied before any removal. A leading "+" may be
dropped. Adding a number twice or removing one that isn't present is an
error.

File formats are fixed text with variables written as {verb:name}. "verb" is
a printf() verb (e.g. %03d) and "name" is the variable that gets printed
with it. A format with no variables is used as-is.

All spaces around "-", "+", and ".." are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded sequence with more than BigNumber elements is assumed to
	// be a bug.
	BigNumber = 1<<20
)

// ExpandSequenceFormat expands a sequence format string into a sorted
// sequence of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	tok, err := tokeniseSequenceFormat(format)
	if err != nil { return nil, err }
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil { return nil, err }

	set := map[int]bool{ }
	for i := range adds {
		lo, hi := sequenceTokenBounds(adds[i])
		if len(set) + (hi - lo + 1) > BigNumber {
			return nil, fmt.Errorf("The sequence '%s' would have more than "+
				"%d elements, which is almost certainly a bug.", format,
				BigNumber)
		}
		for n := lo; n <= hi; n++ {
			if set[n] {
				return nil, fmt.Errorf("The number %d is added more than once.", n)
			}
			set[n] = true
		}
	}

	for i := range subs {
		lo, hi := sequenceTokenBounds(subs[i])
		for n := lo; n <= hi; n++ {
			if !set[n] {
				return nil, fmt.Errorf("The number %d is removed more times "+
					"than it was inserted.", n)
			}
			delete(set, n)
		}
	}

	out := make([]int, 0, len(set))
	for n := range set { out = append(out, n) }
	sort.Ints(out)
	return out, nil
}

// tokeniseSequenceFormat splits a sequence format into operators and
// operands.
func tokeniseSequenceFormat(format string) ([]string, error) {
	clean := strings.ReplaceAll(format, "+", " + ")
	clean = strings.ReplaceAll(clean, "-", " - ")
	tok := strings.Fields(clean)

	// Rejoin ranges that were written with spaces, "1 .. 4".
	joined := []string{ }
	for i := 0; i < len(tok); i++ {
		n := len(joined)
		if n > 0 && (strings.HasPrefix(tok[i], "..") ||
			strings.HasSuffix(joined[n-1], "..")) &&
			!isOperator(tok[i]) && !isOperator(joined[n-1]) {
			joined[n-1] += tok[i]
		} else {
			joined = append(joined, tok[i])
		}
	}

	if len(joined) == 0 {
		return nil, fmt.Errorf("The format string is empty.")
	}
	return joined, nil
}

func isOperator(tok string) bool { return tok == "+" || tok == "-" }

// addsSubsSequenceFormat sorts tokens into those that add numbers and those
// that remove them.
func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("The format string is empty.")
	}

	adds, subs = []string{ }, []string{ }
	if !isOperator(tok[0]) {
		tok = append([]string{"+"}, tok...)
	}

	for i := 0; i < len(tok); i += 2 {
		if !isOperator(tok[i]) {
			return nil, nil, fmt.Errorf(
				"Element '%s' should be a '-' or '+', but isn't.", tok[i])
		} else if i + 1 >= len(tok) {
			return nil, nil, fmt.Errorf(
				"The format string ends in a trailing '%s'.", tok[i])
		}

		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element '%s' cannot be parsed because %s", tok[i+1],
				err.Error())
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error if tok is a valid operand and
// an error describing the problem otherwise. The message is written to
// follow "because".
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("it is empty.")
	}

	bounds := strings.Split(tok, "..")
	if len(bounds) > 2 {
		return fmt.Errorf("it has more than one '..'.")
	}

	vals := make([]int, len(bounds))
	for i := range bounds {
		var err error
		if vals[i], err = strconv.Atoi(bounds[i]); err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[i])
		}
	}

	if len(vals) == 2 && vals[1] < vals[0] {
		return fmt.Errorf("lower bound %d is larger than upper bound %d.",
			vals[0], vals[1])
	}
	return nil
}

// sequenceTokenBounds returns the inclusive range of a token that has
// already passed isSequenceFormatToken.
func sequenceTokenBounds(tok string) (lo, hi int) {
	bounds := strings.Split(tok, "..")
	lo, _ = strconv.Atoi(bounds[0])
	if len(bounds) == 1 { return lo, lo }
	hi, _ = strconv.Atoi(bounds[1])
	return lo, hi
}

// FileFormat is a parsed file format string. Separators has one more
// element than Verbs and Vars.
type FileFormat struct {
	Separators []string
	Verbs, Vars []string
}

// ParseFileFormat splits a file format into its fixed text and variables.
func ParseFileFormat(format string) (*FileFormat, error) {
	starts, ends, err := fileFormatStartsEnds(format)
	if err != nil { return nil, err }

	ff := &FileFormat{ }
	sepStart := 0
	for i := range starts {
		ff.Separators = append(ff.Separators, format[sepStart: starts[i]])
		sepStart = ends[i]

		v := format[starts[i]+1: ends[i]-1]
		tok := strings.Split(v, ":")
		if len(tok) != 2 || !strings.HasPrefix(strings.TrimSpace(tok[0]), "%") ||
			len(strings.TrimSpace(tok[1])) == 0 {
			return nil, fmt.Errorf("The file format '%s' has an invalid "+
				"variable, '{%s}'. Variables should contain a formatting verb "+
				"(e.g. '%%d', '%%03d'), a colon, and a variable name (e.g. "+
				"'seed').", format, v)
		}
		ff.Verbs = append(ff.Verbs, strings.TrimSpace(tok[0]))
		ff.Vars = append(ff.Vars, strings.TrimSpace(tok[1]))
	}
	ff.Separators = append(ff.Separators, format[sepStart:])

	return ff, nil
}

// Expand prints the file format with the given variable values. Every
// variable in the format must be in vars.
func (ff *FileFormat) Expand(vars map[string]interface{}) (string, error) {
	sb := &strings.Builder{ }
	for i := range ff.Vars {
		sb.WriteString(ff.Separators[i])
		val, ok := vars[ff.Vars[i]]
		if !ok {
			return "", fmt.Errorf("The file format uses the variable '%s', "+
				"which isn't defined.", ff.Vars[i])
		}
		s := fmt.Sprintf(ff.Verbs[i], val)
		if strings.Contains(s, "%!") {
			return "", fmt.Errorf("The verb '%s' cannot print the variable "+
				"'%s' (%v).", ff.Verbs[i], ff.Vars[i], val)
		}
		sb.WriteString(s)
	}
	sb.WriteString(ff.Separators[len(ff.Separators)-1])
	return sb.String(), nil
}

// ExpandFileFormat parses and expands a file format in one step.
func ExpandFileFormat(format string, vars map[string]interface{}) (string, error) {
	ff, err := ParseFileFormat(format)
	if err != nil { return "", err }
	return ff.Expand(vars)
}

// fileFormatStartsEnds returns the indices of the '{' and one past the '}'
// of each variable.
func fileFormatStartsEnds(format string) (starts, ends []int, err error) {
	starts, ends = []int{ }, []int{ }
	nestedLevel := 0

	ending := "Make sure variables in file formats are enclosed in " +
		"matching { ... } pairs."

	for i := range format {
		if format[i] == '{' {
			nestedLevel++
			starts = append(starts, i)
		} else if format[i] == '}' {
			nestedLevel--
			ends = append(ends, i+1)
		}

		if nestedLevel > 1 {
			end := len(starts) - 1
			return nil, nil, fmt.Errorf("The file format '%s' has nested "+
				"'{' characters at indices %d and %d. " + ending,
				format, starts[end - 1], starts[end])
		} else if nestedLevel < 0 {
			return nil, nil, fmt.Errorf("The file format '%s' has a '}' at "+
				"index %d that doesn't come after a '{'. " + ending,
				format, i)
		}
	}

	if len(ends) != len(starts) {
		return nil, nil, fmt.Errorf("The file format '%s' has a '{' at index "+
			"%d without a matching '}'. " + ending, format,
			starts[len(starts) - 1])
	}

	return starts, ends, nil
}
