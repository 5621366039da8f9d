//go:build darwin

package calibrate

import (
	"context"
	"fmt"
	"os/exec"
)

// osascriptInjector drives macOS System Events to send a Return keystroke
// to the frontmost application. Requires Accessibility permission for the
// terminal and this binary; Available fails cleanly when it is missing.
type osascriptInjector struct{}

func platformInjector() Injector { return &osascriptInjector{} }

func (osascriptInjector) Name() string { return "AppleScript automation" }

func (osascriptInjector) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("osascript"); err != nil {
		return false
	}
	// A no-op System Events query exercises the Accessibility permission
	// without injecting anything.
	cmd := exec.CommandContext(ctx, "osascript", "-e",
		`tell application "System Events" to get name of first process whose frontmost is true`)
	return cmd.Run() == nil
}

func (osascriptInjector) SendReturn(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e",
		`tell application "System Events" to keystroke return`)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: osascript: %v", ErrAutomationUnavailable, err)
	}
	return nil
}
