package carve

import "github.com/pkg/errors"

// Threading errors through every loop splice and silhouette walk would bury
// the algorithm in bookkeeping. Internal consistency failures panic instead,
// and the public entry points recover and convert them to an error.

type CarveError struct {
	err error
}

func (e *CarveError) Error() string { return e.err.Error() }

func (e *CarveError) Unwrap() error { return e.err }

// Panic with a CarveError.
func fatalf(format string, args ...interface{}) {
	panic(&CarveError{errors.Errorf(format, args...)})
}

// HandlePanicRecover turns a recovered CarveError into an error. Any other
// panic value is a bug and is re-raised.
func HandlePanicRecover(r interface{}) error {
	if r != nil {
		if carveError, ok := r.(*CarveError); ok {
			return carveError
		}
		panic(r)
	}
	return nil
}
