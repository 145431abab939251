package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Envelope is the budget ceiling of a project. It applies to all
// descendants of the project that do not have an envelope of their own.
type Envelope struct {
	DefaultModel
	ProjectCode string          `gorm:"uniqueIndex"`
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.ProjectCode = strings.TrimSpace(e.ProjectCode)
	if e.ProjectCode == "" {
		return ErrCodeEmpty
	}
	return nil
}

// FindEnvelope returns the envelope configured for the project. ok is
// false when the project has none.
func FindEnvelope(db *gorm.DB, projectCode string) (envelope Envelope, ok bool, err error) {
	tx := db.Where("project_code = ?", projectCode).Limit(1).Find(&envelope)
	if tx.Error != nil {
		return Envelope{}, false, tx.Error
	}
	return envelope, tx.RowsAffected > 0, nil
}

// Envelopes returns all envelopes keyed by project code.
func Envelopes(db *gorm.DB) (map[string]decimal.Decimal, error) {
	var envelopes []Envelope
	err := db.Find(&envelopes).Error
	if err != nil {
		return nil, err
	}

	m := make(map[string]decimal.Decimal, len(envelopes))
	for _, e := range envelopes {
		m[e.ProjectCode] = e.Amount
	}
	return m, nil
}

// UpsertEnvelope sets the envelope amount for a project.
func UpsertEnvelope(db *gorm.DB, projectCode string, amount decimal.Decimal) (envelope Envelope, created bool, err error) {
	envelope, ok, err := FindEnvelope(db, strings.TrimSpace(projectCode))
	if err != nil {
		return Envelope{}, false, err
	}

	if ok {
		envelope.Amount = amount
		err = db.Save(&envelope).Error
		return envelope, false, err
	}

	envelope = Envelope{ProjectCode: projectCode, Amount: amount}
	err = db.Create(&envelope).Error
	return envelope, err == nil, err
}
