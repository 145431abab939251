package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrCodeEmpty                = errors.New("the code must not be empty")
	ErrAccountCodeNotUnique     = errors.New("the account code must be unique")
	ErrEntityCodeNotUnique      = errors.New("the entity code must be unique")
	ErrProjectCodeNotUnique     = errors.New("the project code must be unique")
	ErrEnvelopeProjectNotUnique = errors.New("there already is an envelope for this project")
	ErrAccountMappingNotUnique  = errors.New("this account mapping already exists")
	ErrTransactionCodeNotUnique = errors.New("the transaction code must be unique")
	ErrBudgetDataNotUnique      = errors.New("there already is budget data for this project and account")
	ErrTransferLineNotUnique    = errors.New("there already is a transfer line for this cost center, account and project in the transaction")
)
