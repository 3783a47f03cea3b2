package errclass

import "fmt"

// DebriefError is a stable, machine-readable error class.
type DebriefError struct {
	Code    string
	Message string
}

func (e *DebriefError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DebriefError) Is(target error) bool {
	t, ok := target.(*DebriefError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new DebriefError with the same Code but a specific message.
func (e *DebriefError) WithMessage(msg string) *DebriefError {
	return &DebriefError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new DebriefError with a formatted message.
func (e *DebriefError) WithMessagef(format string, args ...any) *DebriefError {
	return &DebriefError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Stable error classes.
var (
	ErrSideUnknown         = &DebriefError{Code: "E_SIDE_UNKNOWN"}
	ErrSidesInvalid        = &DebriefError{Code: "E_SIDES_INVALID"}
	ErrRosterInvalid       = &DebriefError{Code: "E_ROSTER_INVALID"}
	ErrCatalogInvalid      = &DebriefError{Code: "E_CATALOG_INVALID"}
	ErrLogUnreadable       = &DebriefError{Code: "E_LOG_UNREADABLE"}
	ErrWatchDirUnavailable = &DebriefError{Code: "E_WATCH_DIR_UNAVAILABLE"}
	ErrWatchTimeout        = &DebriefError{Code: "E_WATCH_TIMEOUT"}
	ErrConfigInvalid       = &DebriefError{Code: "E_CONFIG_INVALID"}
)
