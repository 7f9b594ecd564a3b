package tui

// ActionableError pairs an error message with the next step the user
// should take.
//
//	err := tui.NewActionableError("cannot write report", "Pass --output-dir")
//	out.Error(err)
//	// ✗ cannot write report
//	//   ▸ Try: Pass --output-dir
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion starts with a verb, e.g. "Run: xrayreport init".
	Suggestion string

	// Context is appended to the message in parentheses when set.
	Context string

	cause error
}

// NewActionableError creates an ActionableError with message and suggestion.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{
		Message:    msg,
		Suggestion: suggestion,
	}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	if e.Context != "" {
		return e.Message + " (" + e.Context + ")"
	}
	return e.Message
}

// Unwrap returns the error set with WithCause.
func (e *ActionableError) Unwrap() error {
	return e.cause
}

// WithContext sets Context and returns e for chaining.
func (e *ActionableError) WithContext(ctx string) *ActionableError {
	e.Context = ctx
	return e
}

// WithCause records the underlying error so errors.Is still matches it.
func (e *ActionableError) WithCause(err error) *ActionableError {
	e.cause = err
	return e
}
