package config

import (
	"fmt"
	"io"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	ExitCodef(1, format, args...)
}

// ExitCodef writes a formatted error message to stderr and exits with code.
// Commands use code 2 for invalid configuration.
func ExitCodef(code int, format string, args ...any) {
	writeLine(os.Stderr, format, args...)
	os.Exit(code)
}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
