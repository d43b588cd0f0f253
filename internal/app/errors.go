package service

import "errors"

// Sentinel kinds for session errors.
var (
	// ErrInvalidInput marks text that is not a number (amount) or not an
	// integer (participant count).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNonPositive marks an amount or participant count that is not > 0.
	ErrNonPositive = errors.New("amount and participant count must be greater than zero")
	// ErrSave marks a failed history export.
	ErrSave = errors.New("save history failed")
	// ErrNoStore is returned by Save when the service has no store.
	ErrNoStore = errors.New("no history store configured")
)

// KindError tags an underlying error with an operation and a sentinel kind.
// errors.Is matches both the kind and the cause.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind wraps err as kind, raised by op.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

// IsValidation reports whether err is a user input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNonPositive)
}
