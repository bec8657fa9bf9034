package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound             = errors.New("not found")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrCycleDetected        = errors.New("cycle detected")
	ErrStorage              = errors.New("storage failure")
	ErrValidation           = errors.New("validation failed")
)

// NotFoundError indicates a node that must exist does not
type NotFoundError struct {
	Resource string // "node", "file", "parent"
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: not found", e.Resource, e.ID)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ReferentialIntegrityError indicates an operation would attach a node to a
// parent that is missing or is not a folder.
type ReferentialIntegrityError struct {
	ParentID int64
	Missing  bool // parent does not exist (also matches ErrNotFound)
	Message  string
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Missing {
		return fmt.Sprintf("parent %d does not exist", e.ParentID)
	}
	return fmt.Sprintf("parent %d is not a folder", e.ParentID)
}

func (e *ReferentialIntegrityError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is matches ErrReferentialIntegrity, and ErrNotFound when the parent is missing
func (e *ReferentialIntegrityError) Is(target error) bool {
	if target == ErrReferentialIntegrity {
		return true
	}
	return e.Missing && target == ErrNotFound
}

// CycleDetectedError indicates a move would make a node its own ancestor
type CycleDetectedError struct {
	NodeID      int64
	NewParentID int64
}

func (e *CycleDetectedError) Error() string {
	if e.NodeID == e.NewParentID {
		return fmt.Sprintf("cannot move node %d into itself", e.NodeID)
	}
	return fmt.Sprintf("cannot move node %d under its own descendant %d", e.NodeID, e.NewParentID)
}

func (e *CycleDetectedError) StatusCode() int { return http.StatusConflict }

func (e *CycleDetectedError) Is(target error) bool { return target == ErrCycleDetected }

// StorageError wraps a failure of the underlying database
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) StatusCode() int { return http.StatusInternalServerError }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError wraps err as a StorageError. Returns nil for a nil err.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// ValidationError indicates invalid input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
