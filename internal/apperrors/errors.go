package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found or is not
// owned by the requesting user.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing or invalid credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrTypeMismatch indicates that a transaction's type disagrees with its category's type.
var ErrTypeMismatch = errors.New("transaction type does not match category type")

// ErrInsufficientBalance indicates an operation would drive an account balance negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrDuplicateBudget indicates a budget already exists for the same category and period.
var ErrDuplicateBudget = errors.New("budget already exists for this category and period")

// ErrClosedPeriod indicates an attempt to modify a budget whose period has already ended.
var ErrClosedPeriod = errors.New("closed period budgets cannot be modified")

// ErrConcurrentModification indicates a conditional update lost the race: the
// stored value no longer matched the expected one at write time.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// ErrConstraintViolation indicates the store rejected a write because of a
// foreign-key or uniqueness constraint.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrCompensationFailed indicates a saga rollback itself failed, leaving a
// recorded-inconsistent state. Operationally fatal: always logged distinctly,
// never swallowed.
var ErrCompensationFailed = errors.New("compensation failed")

// ErrSchemaUnsupported indicates no known table/column candidate matched in
// the underlying schema. A configuration defect, fatal at feature startup.
var ErrSchemaUnsupported = errors.New("unsupported database schema")
