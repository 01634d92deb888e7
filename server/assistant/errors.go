package assistant

import "fmt"

// UnparseableTimeError reports a temporal expression that matched no
// recognized pattern. It carries only the original expression; internal
// parser errors are never exposed.
type UnparseableTimeError struct {
	Expression string
}

func (e *UnparseableTimeError) Error() string {
	return fmt.Sprintf("could not parse date %q, please use a clear date/time format", e.Expression)
}
