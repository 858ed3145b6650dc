package internal

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeConflict    ErrorType = "CONFLICT"
	ErrorTypeAuth        ErrorType = "AUTH_ERROR"
	ErrorTypeSession     ErrorType = "SESSION_ERROR"
	ErrorTypeMigration   ErrorType = "MIGRATION_ERROR"
	ErrorTypeUnavailable ErrorType = "STORAGE_UNAVAILABLE"
)

type ErrorCode string

const (
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateNPK        ErrorCode = "DUPLICATE_NPK"
	ErrCodeForeignKeyViolation ErrorCode = "FOREIGN_KEY_VIOLATION"
	ErrCodeInvalidRole         ErrorCode = "INVALID_ROLE"
	ErrCodeRequestNotFound     ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeConfigNotFound      ErrorCode = "CONFIG_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeCorruptCredential  ErrorCode = "CORRUPT_CREDENTIAL"

	ErrCodeNoActiveSession ErrorCode = "NO_ACTIVE_SESSION"
	ErrCodeSessionActive   ErrorCode = "SESSION_ALREADY_ACTIVE"

	ErrCodeMigrationNotApplied ErrorCode = "MIGRATION_NOT_APPLIED"
	ErrCodeMigrationOutOfOrder ErrorCode = "MIGRATION_OUT_OF_ORDER"
	ErrCodeMigrationFailed     ErrorCode = "MIGRATION_FAILED"

	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
)

// AppError is the typed error every core operation returns. Callers match
// on Code via errors.Is against the sentinels below or with IsCode.
type AppError struct {
	Type    ErrorType
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is makes wrapped copies of a sentinel match the sentinel itself, so
// fmt.Errorf("...: %w", ErrUserNotFound) still satisfies
// errors.Is(err, ErrUserNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{Type: e.Type, Code: e.Code, Message: e.Message, Cause: cause}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeConflict, Code: code, Message: message}
}

func NewAuthError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeAuth, Code: code, Message: message}
}

func NewSessionError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeSession, Code: code, Message: message}
}

func NewMigrationError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeMigration, Code: code, Message: message}
}

// NewStorageError wraps a backing-engine failure. This is the only class a
// caller may reasonably retry.
func NewStorageError(op string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Code:    ErrCodeStorageUnavailable,
		Message: fmt.Sprintf("storage operation %s failed", op),
		Cause:   cause,
	}
}

var (
	ErrUserNotFound        = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrDuplicateNPK        = NewConflictError("user with this npk already exists", ErrCodeDuplicateNPK)
	ErrForeignKeyViolation = NewValidationError("referenced npk does not exist", ErrCodeForeignKeyViolation)
	ErrInvalidRole         = NewValidationError("role is not recognized", ErrCodeInvalidRole)
	ErrRequestNotFound     = NewNotFoundError("request history not found", ErrCodeRequestNotFound)
	ErrInvalidTransition   = NewValidationError("request is already resolved or target status is not terminal", ErrCodeInvalidTransition)
	ErrConfigNotFound      = NewNotFoundError("app config not found", ErrCodeConfigNotFound)

	ErrInvalidCredentials = NewAuthError("invalid credentials", ErrCodeInvalidCredentials)
	ErrCorruptCredential  = NewAuthError("stored credential is malformed", ErrCodeCorruptCredential)

	ErrNoActiveSession = NewSessionError("no active session", ErrCodeNoActiveSession)
	ErrSessionActive   = NewSessionError("a session is already active, logout first", ErrCodeSessionActive)

	ErrMigrationNotApplied = NewMigrationError("migration has not been applied", ErrCodeMigrationNotApplied)
	ErrMigrationOutOfOrder = NewMigrationError("only the latest applied migration can be rolled back", ErrCodeMigrationOutOfOrder)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
