package transit

import (
	"errors"
	"fmt"
)

// SearchErrorCode categorizes search failures.
type SearchErrorCode string

const (
	// ErrCodeIterationLimit indicates the configured iteration budget ran out.
	ErrCodeIterationLimit SearchErrorCode = "ITERATION_LIMIT"

	// ErrCodeNotConverged indicates root refinement gave up inside a bracket.
	ErrCodeNotConverged SearchErrorCode = "NOT_CONVERGED"

	// ErrCodeNoBracket indicates the endpoints of a bracket do not straddle
	// a root.
	ErrCodeNoBracket SearchErrorCode = "NO_BRACKET"
)

// SearchError reports a search that stopped without an answer.
type SearchError struct {
	Code SearchErrorCode

	// Op names the search ("next_aspect", "previous_new_moon", ...).
	Op string

	// Iterations is the number of trial dates evaluated.
	Iterations int

	// JD is the last trial date and Diff the angular distance, in degrees,
	// still separating the pair from the target there.
	JD   float64
	Diff float64
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: %s after %d iterations (jd=%.6f, diff=%.3g°)",
		e.Code, e.Op, e.Iterations, e.JD, e.Diff)
}

// IsSearchError returns true if err is a SearchError of any code.
// Uses errors.As to handle wrapped errors.
func IsSearchError(err error) bool {
	var se *SearchError
	return errors.As(err, &se)
}

// IsNotConverged returns true if err is a SearchError raised by root
// refinement giving up inside a bracket.
func IsNotConverged(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNotConverged
	}
	return false
}

// IsIterationLimit returns true if err is a SearchError raised by an
// exhausted iteration budget.
func IsIterationLimit(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Code == ErrCodeIterationLimit
	}
	return false
}

// iterationQuota counts trial dates and enforces the iteration budget.
// A zero limit never trips.
type iterationQuota struct {
	op      string
	limit   int
	current int
}

func newIterationQuota(op string, limit int) *iterationQuota {
	return &iterationQuota{op: op, limit: limit}
}

// Check increments the counter and returns a SearchError once the budget
// is exceeded.
func (q *iterationQuota) Check(jd, diff float64) error {
	q.current++
	if q.limit > 0 && q.current > q.limit {
		return &SearchError{
			Code:       ErrCodeIterationLimit,
			Op:         q.op,
			Iterations: q.current - 1,
			JD:         jd,
			Diff:       diff,
		}
	}
	return nil
}

// Current returns the number of checks made.
func (q *iterationQuota) Current() int { return q.current }

// ErrNoElements is returned by NextConjunction for objects that have no
// orbit of their own (angles, houses, points, stars).
var ErrNoElements = errors.New("transit: object has no orbital elements")
