package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrCycleDetected      = NewDomainError("CYCLE_DETECTED", "Operation would create a cycle in the category hierarchy")
	ErrInvalidMergeTarget = NewDomainError("INVALID_MERGE_TARGET", "Merge target must be a different category outside the source subtree")
	ErrDeleteBlocked      = NewDomainError("DELETE_BLOCKED", "Category has children or product associations; detach them or force the delete")
)
