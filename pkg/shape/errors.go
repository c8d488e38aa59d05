package shape

import "fmt"

// SizeMismatchError reports actual and reference sets of different
// cardinality.
type SizeMismatchError struct {
	ActualN    int
	ReferenceN int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("point set size mismatch: actual has %d points, reference has %d", e.ActualN, e.ReferenceN)
}

// DegeneratePointSetError reports an input set that spans fewer than two
// distinct directions and therefore has no meaningful shape.
type DegeneratePointSetError struct {
	Reason string
}

func (e *DegeneratePointSetError) Error() string {
	return fmt.Sprintf("degenerate point set: %s", e.Reason)
}

// NonFiniteInputError reports a NaN or infinite input coordinate.
type NonFiniteInputError struct {
	Index int
}

func (e *NonFiniteInputError) Error() string {
	return fmt.Sprintf("non-finite coordinate at point %d", e.Index)
}
