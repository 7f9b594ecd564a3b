package errors

import "fmt"

// Wrap adds context to an error at a package boundary and keeps the chain
// intact for errors.Is. A nil err yields nil, so it can be used inline:
//
//	return errors.Wrap(err, "failed to write report")
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
//
//	return errors.Wrapf(errors.ErrConfigInvalidReport, "report.timezone %q", tz)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
