package form

import (
	"github.com/turbot/flowpipe-form/fperr"
)

// Status is the local submission state of one mounted form session,
// independent of the workflow-side status carried by the descriptor.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSubmitting Status = "submitting"
	StatusResponded  Status = "responded"
	StatusError      Status = "error"
)

// State is the submission state machine: pending to submitting on submit,
// then exactly one of responded (on success) or error (on failure, carrying
// the error payload). There is no transition out of responded; retry from
// error re-enters submitting. Callers serialize access through the owning
// Session.
type State struct {
	status Status
	err    *fperr.ErrorModel
}

func NewState() *State {
	return &State{status: StatusPending}
}

func (s *State) Status() Status {
	return s.status
}

// Err returns the error payload recorded by the last failed submission, or
// nil.
func (s *State) Err() *fperr.ErrorModel {
	return s.err
}

// BeginSubmit enters submitting. Allowed from pending and error only.
func (s *State) BeginSubmit() error {
	switch s.status {
	case StatusPending, StatusError:
		s.status = StatusSubmitting
		return nil
	case StatusSubmitting:
		return fperr.ConflictWithMessage("submission already in progress")
	case StatusResponded:
		return fperr.ConflictWithMessage("input has already been responded to")
	default:
		return fperr.InternalWithMessage("unknown submission state " + string(s.status))
	}
}

// Succeed records a successful submission. Only valid while submitting.
func (s *State) Succeed() error {
	if s.status != StatusSubmitting {
		return fperr.InternalWithMessage("cannot record success from state " + string(s.status))
	}
	s.status = StatusResponded
	s.err = nil
	return nil
}

// Fail records a failed submission with its error payload. Only valid while
// submitting; the session may retry from here.
func (s *State) Fail(e fperr.ErrorModel) error {
	if s.status != StatusSubmitting {
		return fperr.InternalWithMessage("cannot record failure from state " + string(s.status))
	}
	s.status = StatusError
	s.err = &e
	return nil
}
