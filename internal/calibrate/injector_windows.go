//go:build windows

package calibrate

import (
	"context"
	"fmt"
	"os/exec"
)

const sendKeysScript = `Add-Type -AssemblyName System.Windows.Forms
[System.Windows.Forms.SendKeys]::SendWait("{ENTER}")`

// sendKeysInjector uses PowerShell SendKeys to post an Enter keystroke to
// the focused window. The terminal must keep focus during calibration.
type sendKeysInjector struct{}

func platformInjector() Injector { return &sendKeysInjector{} }

func (sendKeysInjector) Name() string { return "PowerShell SendKeys" }

func (sendKeysInjector) Available(ctx context.Context) bool {
	if _, err := exec.LookPath("powershell"); err != nil {
		return false
	}
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
		`Add-Type -AssemblyName System.Windows.Forms`)
	return cmd.Run() == nil
}

func (sendKeysInjector) SendReturn(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", sendKeysScript)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: powershell: %v", ErrAutomationUnavailable, err)
	}
	return nil
}
