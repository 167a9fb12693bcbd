package analysis

import "errors"

var (
	// ErrMissingDocuments reports an analyze call without both payloads.
	// It is raised before any network call is made.
	ErrMissingDocuments = errors.New("both documents required")
	// ErrInvalidKind reports an unknown document kind.
	ErrInvalidKind = errors.New("invalid document kind")
)
