package commands

import (
	"errors"
	"fmt"
	"io"

	"todoai/internal/exitcode"
	"todoai/internal/store"
)

// reportError maps a store/coordinator error to a message and exit
// code. Validation problems are user errors; anything that touched the
// wire is a backend error.
func reportError(errOut io.Writer, err error) int {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(errOut, "error: %v\n", verr)
		return exitcode.UserError
	}

	var serr *store.StoreError
	if errors.As(err, &serr) {
		fmt.Fprintf(errOut, "error: store error: %v\n", serr)
		return exitcode.BackendError
	}

	var nerr *store.NetworkError
	if errors.As(err, &nerr) {
		fmt.Fprintf(errOut, "error: %v\n", nerr)
		return exitcode.BackendError
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
