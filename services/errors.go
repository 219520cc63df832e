package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ValidationError is returned when input is rejected before any write is
// attempted. The message is safe to surface to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is returned when a referenced row does not exist (or is not
// visible to the caller's company).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConstraintError is returned on uniqueness or foreign key violations.
type ConstraintError struct {
	Message string
}

func (e *ConstraintError) Error() string {
	return e.Message
}

// PermissionError is returned when a row exists but belongs to another
// company.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// TransientError wraps a network or timeout failure from a remote
// collaborator. The operation is safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Write steps reported by PartialWriteError so a caller knows which half of
// a multi-step operation needs repair or retry.
const (
	StepEstimateInsert     = "estimate insert"
	StepEstimateItemInsert = "estimate item insert"
	StepEstimateItemDelete = "estimate item delete"
	StepEstimateDelete     = "estimate delete"
	StepTemplateInsert     = "template insert"
	StepTemplateUpdate     = "template update"
	StepTemplateItemDelete = "template item delete"
	StepTemplateItemInsert = "template item insert"
	StepStatusUpdate       = "status update"
	StepArtifactUpload     = "artifact upload"
	StepArtifactURLUpdate  = "artifact url update"
)

// PartialWriteError identifies which sub-step of a multi-step write failed.
type PartialWriteError struct {
	Step string
	Err  error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// translateDBError maps a gorm error to the service error taxonomy.
func translateDBError(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "foreign key") {
		return &ConstraintError{Message: err.Error()}
	}
	return err
}
