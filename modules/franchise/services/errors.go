package services

import (
	"fmt"
	"net/http"
)

// Stable error codes surfaced to callers. Route handlers map Status to
// the HTTP response; Code is the machine-readable taxonomy.
const (
	CodeNotFound           = "FRANCHISE_NOT_FOUND"
	CodeValidation         = "FRANCHISE_VALIDATION"
	CodeHierarchyViolation = "FRANCHISE_HIERARCHY_VIOLATION"
	CodeDuplicateSlug      = "FRANCHISE_DUPLICATE_SLUG"
	CodeAlreadyMember      = "FRANCHISE_ALREADY_MEMBER"
	CodeAlreadyAssigned    = "FRANCHISE_ALREADY_ASSIGNED"
	CodeDuplicatePending   = "FRANCHISE_DUPLICATE_PENDING"
	CodeHasChildren        = "FRANCHISE_HAS_CHILDREN"
	CodeInvalidTransition  = "FRANCHISE_INVALID_TRANSITION"
	CodeInternal           = "FRANCHISE_INTERNAL"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

func errNotFound(message string, cause error) *ServiceError {
	return newServiceError(http.StatusNotFound, CodeNotFound, message, cause)
}

func errValidation(message string) *ServiceError {
	return newServiceError(http.StatusBadRequest, CodeValidation, message, nil)
}

func errConflict(code, message string) *ServiceError {
	return newServiceError(http.StatusConflict, code, message, nil)
}

func errHierarchyViolation(message string) *ServiceError {
	return newServiceError(http.StatusUnprocessableEntity, CodeHierarchyViolation, message, nil)
}
