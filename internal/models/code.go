package models

import (
	"errors"
	"strings"

	"github.com/budgetflow/backend/internal/hierarchy"
	"gorm.io/gorm"
)

// CodeNode is a code in one of the code hierarchies. The parent references
// another code of the same hierarchy, roots have no parent.
type CodeNode struct {
	Code   string  `gorm:"uniqueIndex"`
	Parent *string `gorm:"index"`
	Alias  *string
}

// DisplayName returns the alias, falling back to the code.
func (n CodeNode) DisplayName() string {
	if n.Alias != nil && *n.Alias != "" {
		return *n.Alias
	}
	return n.Code
}

// Node returns the node itself. Records embedding CodeNode expose it
// through this method.
func (n CodeNode) Node() CodeNode {
	return n
}

// HierarchyNode returns the node as used by the hierarchy package.
func (n CodeNode) HierarchyNode() hierarchy.Node {
	return hierarchy.Node{Code: n.Code, Parent: n.Parent}
}

// Normalize trims all values and sets empty optional values to nil.
func (n *CodeNode) Normalize() {
	n.Code = strings.TrimSpace(n.Code)
	n.Parent = trimmedOrNil(n.Parent)
	n.Alias = trimmedOrNil(n.Alias)
}

func (n *CodeNode) BeforeSave(_ *gorm.DB) error {
	n.Normalize()
	if n.Code == "" {
		return ErrCodeEmpty
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}

	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// Account is a code of the chart of accounts.
type Account struct {
	DefaultModel
	CodeNode
}

// Entity is a cost center.
type Entity struct {
	DefaultModel
	CodeNode
}

// Project is a project code. Envelopes are assigned to projects.
type Project struct {
	DefaultModel
	CodeNode
}

// CodeRecord is any of the three code hierarchies.
type CodeRecord interface {
	Account | Entity | Project
	HierarchyNode() hierarchy.Node
	DisplayName() string
	Node() CodeNode
	Meta() DefaultModel
}

// NewCodeRecord returns a record of type T for the node.
func NewCodeRecord[T CodeRecord](node CodeNode) T {
	var record T
	setNode(&record, node)
	return record
}

// WithNode returns record with its code node replaced.
func WithNode[T CodeRecord](record T, node CodeNode) T {
	setNode(&record, node)
	return record
}

func setNode[T CodeRecord](record *T, node CodeNode) {
	switch r := any(record).(type) {
	case *Account:
		r.CodeNode = node
	case *Entity:
		r.CodeNode = node
	case *Project:
		r.CodeNode = node
	}
}

// LoadTree loads all codes of type T into a hierarchy tree.
func LoadTree[T CodeRecord](db *gorm.DB) (*hierarchy.Tree, error) {
	var records []T
	err := db.Model(new(T)).Order("code ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	nodes := make([]hierarchy.Node, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, r.HierarchyNode())
	}

	return hierarchy.New(nodes), nil
}

// FindByCode returns the record with the given code. ok is false if
// there is none.
func FindByCode[T CodeRecord](db *gorm.DB, code string) (record T, ok bool, err error) {
	tx := db.Where("code = ?", code).Limit(1).Find(&record)
	if tx.Error != nil {
		return record, false, tx.Error
	}
	return record, tx.RowsAffected > 0, nil
}

// UpsertCode creates the code or updates parent and alias of the existing
// record with the same code. created reports which of both happened.
func UpsertCode[T CodeRecord](db *gorm.DB, node CodeNode) (created bool, err error) {
	node.Normalize()
	if node.Code == "" {
		return false, ErrCodeEmpty
	}

	existing, ok, err := FindByCode[T](db, node.Code)
	if err != nil {
		return false, err
	}

	if ok {
		setNode(&existing, node)
		return false, db.Save(&existing).Error
	}

	record := NewCodeRecord[T](node)
	err = db.Create(&record).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}
