package dvsim

// errors.go holds the error values reported while a topology or a
// simulation configuration is being assembled

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAsymmetric is reported when i lists j as a neighbor but j does not list i
	ErrAsymmetric = errors.New("asymmetric adjacency")

	// ErrSelfAdjacent is reported for a link whose two ends are the same node
	ErrSelfAdjacent = errors.New("node adjacent to itself")

	// ErrNonPositiveCost is reported for a link cost that is zero or negative
	ErrNonPositiveCost = errors.New("non-positive link cost")

	// ErrUnknownNode is reported for a link that names a node not in the node list
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is reported when a node name appears twice
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDuplicateLink is reported when the same ordered pair is given two costs
	ErrDuplicateLink = errors.New("duplicate link")

	// ErrBadParameter is reported for a simulation parameter out of range
	ErrBadParameter = errors.New("bad simulation parameter")

	// ErrStepLimit is returned by Run when the step limit is reached before convergence
	ErrStepLimit = errors.New("step limit reached before convergence")

	// ErrTimeLimit is returned when virtual time runs out before convergence
	ErrTimeLimit = errors.New("virtual time limit reached before convergence")

	// ErrNotRunnable is returned when a step is requested of a driver that has converged
	ErrNotRunnable = errors.New("driver has already converged")
)

// ConfigurationError describes everything that was wrong with a topology
// or configuration description. Construction is abandoned when one is returned.
type ConfigurationError struct {
	// what was being built, e.g. the topology name
	Subject string

	// every problem found, each wrapping one of the sentinel errors above
	Problems []error
}

// Error lists the problems, comma separated, after the subject
func (ce *ConfigurationError) Error() string {
	msgs := make([]string, 0, len(ce.Problems))
	for _, p := range ce.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("configuration error in %s: %s", ce.Subject, strings.Join(msgs, ", "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As
func (ce *ConfigurationError) Unwrap() []error {
	return ce.Problems
}

// newConfigurationError returns nil when no problems were gathered,
// so that callers may return its result directly
func newConfigurationError(subject string, problems []error) error {
	if len(problems) == 0 {
		return nil
	}
	return &ConfigurationError{Subject: subject, Problems: problems}
}

// ReportErrs transforms a list of errors and transforms the non-nil ones into a single error
// with comma-separated report of all the constituent errors, and returns it.
func ReportErrs(errs []error) error {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}

	return errors.New(strings.Join(errMsg, ","))
}
