package apperrors

// Kind discriminates domain errors; the HTTP boundary maps each kind to a
// status code.
type Kind int

const (
	KindConflict Kind = iota
	KindUnauthorized
	KindInvalidCredentials
	KindNotFound
	KindUnprocessableEntity
)

// Error is a tagged domain error raised by services and matched exhaustively
// at the HTTP boundary.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Conflict reports duplicate or contradictory state.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthorized reports a missing, invalid or expired credential.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// InvalidCredentials reports a failed login attempt.
func InvalidCredentials(message string) *Error {
	return &Error{Kind: KindInvalidCredentials, Message: message}
}

// NotFound reports a referenced entity that does not exist.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// UnprocessableEntity reports input accepted by the schema but rejected by a
// business rule.
func UnprocessableEntity(message string) *Error {
	return &Error{Kind: KindUnprocessableEntity, Message: message}
}
