package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrAccountMappingSelf = errors.New("an account cannot be mapped to itself")

// AccountMapping maps a legacy source account to the account that
// replaced it.
type AccountMapping struct {
	DefaultModel
	Source string `gorm:"uniqueIndex:account_mapping_source_target;index"`
	Target string `gorm:"uniqueIndex:account_mapping_source_target;index"`
}

func (m *AccountMapping) BeforeSave(_ *gorm.DB) error {
	m.Source = strings.TrimSpace(m.Source)
	m.Target = strings.TrimSpace(m.Target)

	if m.Source == "" || m.Target == "" {
		return ErrCodeEmpty
	}

	if m.Source == m.Target {
		return ErrAccountMappingSelf
	}
	return nil
}

// GetOrCreateAccountMapping creates the mapping unless it exists already.
func GetOrCreateAccountMapping(db *gorm.DB, source, target string) (mapping AccountMapping, created bool, err error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)

	tx := db.Where("source = ? AND target = ?", source, target).Limit(1).Find(&mapping)
	if tx.Error != nil {
		return AccountMapping{}, false, tx.Error
	}
	if tx.RowsAffected > 0 {
		return mapping, false, nil
	}

	mapping = AccountMapping{Source: source, Target: target}
	err = db.Create(&mapping).Error
	return mapping, err == nil, err
}
