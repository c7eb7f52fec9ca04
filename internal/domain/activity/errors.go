package activity

import "errors"

var (
	// ErrMissingSubject indicates a notification without a usable subject id.
	ErrMissingSubject = errors.New("notification has no subject id")
	// ErrResolution indicates an entity lookup failed.
	ErrResolution = errors.New("entity resolution failed")
	// ErrEntityNotFound is returned by resolvers for unknown ids.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrPersistence indicates the activity store rejected a write.
	ErrPersistence = errors.New("activity write failed")
	// ErrMalformedPayload indicates serialized content could not be parsed.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnsupportedKind indicates a notification kind the engine ignores.
	ErrUnsupportedKind = errors.New("unsupported entity kind")
	// ErrInvalidInput indicates invalid input for activity operations.
	ErrInvalidInput = errors.New("invalid activity input")
)
