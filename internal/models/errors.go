package models

import (
	"errors"
	"fmt"
)

// ErrAccountExists is returned when a username or email is already registered.
var ErrAccountExists = errors.New("username or email already registered")

// ValidationError is returned when input is malformed or out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is allows errors.Is(err, &ValidationError{}).
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// DuplicateNameError is returned when a product name is already taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a product named %q already exists", e.Name)
}

// Is allows errors.Is(err, &DuplicateNameError{}).
func (e *DuplicateNameError) Is(target error) bool {
	_, ok := target.(*DuplicateNameError)
	return ok
}

// NotFoundError is returned when an entity id does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Is allows errors.Is(err, &NotFoundError{}).
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// InsufficientStockError is returned when a sale asks for more than is on hand.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}

// Is allows errors.Is(err, &InsufficientStockError{}).
func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

// StoreUnavailableError wraps a failure of the underlying persistence layer.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, &StoreUnavailableError{}).
func (e *StoreUnavailableError) Is(target error) bool {
	_, ok := target.(*StoreUnavailableError)
	return ok
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NewDuplicateNameError(name string) error {
	return &DuplicateNameError{Name: name}
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewInsufficientStockError(productName string, available, requested int) error {
	return &InsufficientStockError{ProductName: productName, Available: available, Requested: requested}
}

func NewStoreUnavailableError(op string, err error) error {
	return &StoreUnavailableError{Op: op, Err: err}
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsDuplicateNameError(err error) bool {
	var target *DuplicateNameError
	return errors.As(err, &target)
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInsufficientStockError(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

func IsStoreUnavailableError(err error) bool {
	var target *StoreUnavailableError
	return errors.As(err, &target)
}
