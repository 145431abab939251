package workflow

import (
	"errors"
	"fmt"

	"github.com/budgetflow/backend/internal/models"
)

var ErrInvalidTransition = errors.New("this action is not possible in the current state of the transaction")

// Event triggers a transition.
type Event string

const (
	EventSubmit  Event = "submit"
	EventApprove Event = "approve"
	EventReject  Event = "reject"
	EventReopen  Event = "reopen"
)

// Events returns all events in the order of a regular approval.
func Events() []Event {
	return []Event{EventSubmit, EventApprove, EventReject, EventReopen}
}

// State is the approval state of a transaction.
type State struct {
	Status models.WorkflowStatus
	Stage  int
}

// StateOf returns the state of a stored instance. The zero instance is
// pending.
func StateOf(instance models.WorkflowInstance) State {
	if instance.Status == "" {
		return State{Status: models.WorkflowPending}
	}
	return State{Status: instance.Status, Stage: instance.CurrentStage}
}

// Next returns the state after event for a template with the given number
// of stages.
//
//	pending      --submit-->  in_progress(1)
//	in_progress(k) --approve--> in_progress(k+1), approved after the last stage
//	in_progress  --reject-->  rejected
//	pending, in_progress(1) --reopen--> pending
//
// Approved and rejected are final.
func Next(s State, e Event, stages int) (State, error) {
	invalid := fmt.Errorf("%w: cannot %s a %s transaction", ErrInvalidTransition, e, describe(s))

	switch e {
	case EventSubmit:
		if s.Status != models.WorkflowPending || stages < 1 {
			return s, invalid
		}
		return State{Status: models.WorkflowInProgress, Stage: 1}, nil

	case EventApprove:
		if s.Status != models.WorkflowInProgress {
			return s, invalid
		}
		if s.Stage >= stages {
			return State{Status: models.WorkflowApproved, Stage: stages}, nil
		}
		return State{Status: models.WorkflowInProgress, Stage: s.Stage + 1}, nil

	case EventReject:
		if s.Status != models.WorkflowInProgress {
			return s, invalid
		}
		return State{Status: models.WorkflowRejected, Stage: s.Stage}, nil

	case EventReopen:
		if s.Status == models.WorkflowPending || (s.Status == models.WorkflowInProgress && s.Stage == 1) {
			return State{Status: models.WorkflowPending}, nil
		}
		return s, invalid
	}

	return s, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, e)
}

func describe(s State) string {
	switch s.Status {
	case models.WorkflowInProgress:
		return fmt.Sprintf("in progress (stage %d)", s.Stage)
	case "":
		return string(models.WorkflowPending)
	default:
		return string(s.Status)
	}
}
