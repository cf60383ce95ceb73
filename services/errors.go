package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable class of a ServiceError.
type ErrorKind string

const (
	KindTableUnavailable  ErrorKind = "TABLE_UNAVAILABLE"
	KindInvalidStatus     ErrorKind = "INVALID_STATUS"
	KindInvalidMenuStatus ErrorKind = "INVALID_MENU_STATUS"
	KindOrderNotFound     ErrorKind = "ORDER_NOT_FOUND"
	KindDuplicateBill     ErrorKind = "DUPLICATE_BILL"
	KindInvalidCart       ErrorKind = "INVALID_CART"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidInput      ErrorKind = "INVALID_INPUT"
	KindStorage           ErrorKind = "STORAGE"
)

// ServiceError is a business-rule or storage failure. Two ServiceErrors
// match under errors.Is when their kinds are equal, so callers compare
// against the sentinels below regardless of the message.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Kind == e.Kind
}

var (
	ErrTableUnavailable  = &ServiceError{Kind: KindTableUnavailable, Message: "table is not available"}
	ErrInvalidStatus     = &ServiceError{Kind: KindInvalidStatus, Message: "invalid order status"}
	ErrInvalidMenuStatus = &ServiceError{Kind: KindInvalidMenuStatus, Message: "invalid menu item status transition"}
	ErrOrderNotFound     = &ServiceError{Kind: KindOrderNotFound, Message: "order not found"}
	ErrDuplicateBill     = &ServiceError{Kind: KindDuplicateBill, Message: "order has already been billed"}
	ErrInvalidCart       = &ServiceError{Kind: KindInvalidCart, Message: "invalid cart"}
	ErrInvalidState      = &ServiceError{Kind: KindInvalidState, Message: "order is not in a valid state for this operation"}
	ErrNotFound          = &ServiceError{Kind: KindNotFound, Message: "record not found"}
	ErrInvalidInput      = &ServiceError{Kind: KindInvalidInput, Message: "invalid input"}
	ErrStorage           = &ServiceError{Kind: KindStorage, Message: "storage failure"}
)

func newError(kind ErrorKind, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// storageError classifies err as a STORAGE failure unless it already
// carries a kind.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Kind: KindStorage, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindStorage for unclassified errors.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}
