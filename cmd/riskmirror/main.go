package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess       = 0
	ExitPartialFailed = 1 // batch finished but some profiles failed
	ExitError         = 2 // configuration or runtime error
)

// BatchFailureError reports that a batch ran to completion with failures.
type BatchFailureError struct {
	Failed int
	Total  int
}

func (e *BatchFailureError) Error() string {
	return fmt.Sprintf("%d of %d profiles failed", e.Failed, e.Total)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var batchErr *BatchFailureError
		if errors.As(err, &batchErr) {
			os.Exit(ExitPartialFailed)
		}
		os.Exit(ExitError)
	}
}
