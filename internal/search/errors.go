package search

import "fmt"

// MalformedRowError means a result row violated a structural
// assumption of the dataset (for example a side value outside
// left/right). It is a data-integrity fault and is surfaced instead of
// silently dropping the row, which would corrupt displayed counts.
type MalformedRowError struct {
	Column string
	Value  any
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("search: malformed row: column %s has unexpected value %v", e.Column, e.Value)
}
