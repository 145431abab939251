package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowStatus is the state of a workflow instance.
type WorkflowStatus string

const (
	WorkflowPending    WorkflowStatus = "pending"
	WorkflowInProgress WorkflowStatus = "in_progress"
	WorkflowApproved   WorkflowStatus = "approved"
	WorkflowRejected   WorkflowStatus = "rejected"
)

// WorkflowInstance tracks a transaction through the stages of its approval
// template. It is the only stored representation of the approval state,
// the legacy status and level are derived from it.
type WorkflowInstance struct {
	DefaultModel
	Transaction      Transaction `json:"-"`
	TransactionID    uuid.UUID   `gorm:"type:uuid;uniqueIndex"`
	Template         string
	Status           WorkflowStatus `gorm:"index"`
	CurrentStage     int            // 1-based, 0 while pending
	TotalStages      int
	JournalRequestID string
}

// Level returns the legacy numeric status level: 0 rejected, 1 pending,
// 1+k while stage k is in progress and TotalStages+2 once approved.
func (w WorkflowInstance) Level() int {
	switch w.Status {
	case WorkflowRejected:
		return 0
	case WorkflowInProgress:
		return 1 + w.CurrentStage
	case WorkflowApproved:
		return w.TotalStages + 2
	default:
		return 1
	}
}

// LegacyStatus returns the status string transactions used to carry.
func (w WorkflowInstance) LegacyStatus() string {
	switch w.Status {
	case WorkflowInProgress:
		return "submitted"
	case WorkflowApproved:
		return "approved"
	case WorkflowRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// StatusText returns a human readable description of the state.
func (w WorkflowInstance) StatusText() string {
	switch w.Status {
	case WorkflowRejected:
		return "is rejected"
	case WorkflowApproved:
		return "approved"
	case WorkflowInProgress:
		return "waiting for approval"
	default:
		return "not yet sent for approval"
	}
}

// FindWorkflowInstance returns the workflow instance of a transaction.
func FindWorkflowInstance(db *gorm.DB, transactionID uuid.UUID) (instance WorkflowInstance, ok bool, err error) {
	tx := db.Where(&WorkflowInstance{TransactionID: transactionID}).Limit(1).Find(&instance)
	if tx.Error != nil {
		return WorkflowInstance{}, false, tx.Error
	}
	return instance, tx.RowsAffected > 0, nil
}

// ApprovalAction is an entry of the audit log of a workflow instance.
type ApprovalAction struct {
	DefaultModel
	WorkflowInstanceID uuid.UUID `gorm:"type:uuid;index"`
	Action             string
	Stage              int
	Actor              string
	Comment            string
	FromStatus         WorkflowStatus
	ToStatus           WorkflowStatus
}

// Actions returns the audit log of the instance, oldest first.
func (w WorkflowInstance) Actions(db *gorm.DB) ([]ApprovalAction, error) {
	var actions []ApprovalAction
	err := db.Where(&ApprovalAction{WorkflowInstanceID: w.ID}).Order("created_at ASC").Find(&actions).Error
	return actions, err
}
