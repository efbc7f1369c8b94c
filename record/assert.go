package record

import "fmt"

// debugAsserts guards internal invariant checks. They document assumptions
// that hold by construction and must never be reachable from external
// input; matcher entry points validate external input explicitly instead.
const debugAsserts = false

func assertf(cond bool, format string, args ...any) {
	if debugAsserts && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
