package calibrate

import (
	"fmt"
	"os"
	"runtime"
)

// TerminalSignature identifies the terminal/OS environment a calibration
// was measured under. Input-stack delay is a property of that stack, so a
// stored compensation value is only reused when the signature matches; a
// changed terminal or platform forces recalibration.
func TerminalSignature() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		runtime.GOOS,
		os.Getenv("TERM_PROGRAM"),
		os.Getenv("TERM_PROGRAM_VERSION"),
		os.Getenv("SHELL"),
	)
}
