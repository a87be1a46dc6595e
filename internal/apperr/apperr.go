// Package apperr holds the error taxonomy the request boundary maps to
// status codes: validation (422), auth (401), forbidden (403),
// not found (404). Anything else surfaces as a 500.
package apperr

type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string { return "validation error" }

func Validation(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func Auth(message string) *AuthError {
	return &AuthError{Message: message}
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func Forbidden(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}
