package cmd

import "errors"

// shownError is an error the user has already been told about.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// shown marks err as already reported so Execute only sets the exit code.
func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}

func isShown(err error) bool {
	var s *shownError
	return errors.As(err, &s)
}
