package mcell

import "errors"

// ExitCode maps a run outcome to the process exit status a CLI entry
// point should use (§6): the core itself never calls os.Exit, it only
// returns this value for a caller to act on.
type ExitCode int

const (
	ExitOK                ExitCode = 0
	ExitModelError        ExitCode = 1
	ExitInternalInvariant ExitCode = 2
)

// ExitCodeFor classifies err into the exit code a CLI should report,
// unwrapping an *Error to inspect its Kind.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitOK
	}
	var mcellErr *Error
	if errors.As(err, &mcellErr) && mcellErr.Kind == KindInternalInvariant {
		return ExitInternalInvariant
	}
	return ExitModelError
}
