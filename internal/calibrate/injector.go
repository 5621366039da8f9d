package calibrate

import (
	"context"
	"errors"
)

// ErrAutomationUnavailable means the platform has no usable synthetic
// keystroke facility; calibration falls back to manual mode.
var ErrAutomationUnavailable = errors.New("keystroke automation unavailable")

// Injector is the platform automation collaborator: it sends one synthetic
// Return keystroke to the focused terminal window, right now. Selection is
// by detected platform capability, not inheritance: each platform file
// contributes (or declines to contribute) an implementation.
type Injector interface {
	// Available probes the automation facility without sending anything.
	Available(ctx context.Context) bool

	// SendReturn injects a single Return keystroke.
	SendReturn(ctx context.Context) error

	// Name describes the facility for logs and prompts.
	Name() string
}

// DetectInjector returns the platform injector, or nil when the platform
// has none and calibration must run manually.
func DetectInjector(ctx context.Context) Injector {
	inj := platformInjector()
	if inj == nil || !inj.Available(ctx) {
		return nil
	}
	return inj
}
