package dispatch

import (
	stdErrors "errors"
	"time"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
)

// Status is the result of dispatching one account.
type Status int

const (
	// StatusApplied means the provisioner accepted the operation.
	StatusApplied Status = iota
	// StatusFailed means the provisioner returned an error.
	StatusFailed
	// StatusSkipped means the account was not dispatched because an earlier
	// account failed, the request was denied or the context ended.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one account of a request.
type Outcome struct {
	Err      error
	Account  string
	Action   entities.AccountAction
	Index    int
	Status   Status
	Duration time.Duration
}

// Report is the result of one dispatch run, one Outcome per account in request order.
type Report struct {
	RequestID   string
	Application string
	Started     time.Time
	Outcomes    []Outcome
}

// Succeeded reports whether every account was applied.
func (r *Report) Succeeded() bool {
	for _, o := range r.Outcomes {
		if o.Status != StatusApplied {
			return false
		}
	}
	return true
}

// Count returns the number of outcomes with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of failed accounts.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err joins the errors of all failed accounts, nil if none failed.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return stdErrors.Join(errs...)
}
