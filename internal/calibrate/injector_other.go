//go:build !darwin && !windows

package calibrate

// No synthetic keystroke facility is assumed on other platforms; the
// calibrator falls back to manual mode.
func platformInjector() Injector { return nil }
