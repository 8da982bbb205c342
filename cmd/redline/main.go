package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess       = 0 // Evaluation completed, narrative qualifies
	ExitNonQualifying = 1 // Evaluation completed, narrative does not qualify
	ExitError         = 2 // Configuration or runtime error
)

// NonQualifyingError indicates that scoring ran successfully but the
// narrative was classified as non-qualifying.
type NonQualifyingError struct {
	Message string
}

func (e *NonQualifyingError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var nonQualifying *NonQualifyingError
		if errors.As(err, &nonQualifying) {
			os.Exit(ExitNonQualifying)
		}

		os.Exit(ExitError)
	}
}
