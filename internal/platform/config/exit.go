package config

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ExitConfig is the exit code for startup failures, matching the flag
// package's usage error code.
const ExitConfig = 2

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Fail reports a startup failure of command on stderr and exits with
// ExitConfig.
func Fail(command string, err error) {
	writeFailure(stderr, command, err)
	exit(ExitConfig)
}

func writeFailure(w io.Writer, command string, err error) {
	prefix := "clinicweb"
	if command = strings.TrimSpace(command); command != "" {
		prefix += " " + command
	}
	fmt.Fprintf(w, "%s: %v\n", prefix, err)
}
