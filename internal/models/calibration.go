package models

import "time"

// CalibrationMethod records how a compensation value was measured.
type CalibrationMethod string

const (
	// MethodAutomated means a synthetic keystroke was injected by the OS
	// automation facility, so the sample contains only input-stack delay.
	MethodAutomated CalibrationMethod = "automated"

	// MethodManual means a human pressed the key in response to a cue. The
	// samples include human reaction time, so the compensation value is a
	// biased overestimate of the true input-stack delay.
	MethodManual CalibrationMethod = "manual"
)

// CalibrationResult is the estimated systematic delay between a physical
// keypress and the moment this process observes the input event.
type CalibrationResult struct {
	ID                 uint              `gorm:"primaryKey" json:"-"`
	TerminalKey        string            `gorm:"index;size:255" json:"terminal_key"`
	CompensationMillis float64           `json:"compensation_millis"`
	SampleCount        int               `json:"sample_count"`
	Method             CalibrationMethod `gorm:"size:16" json:"method"`
	ReducedPrecision   bool              `json:"reduced_precision,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Compensation returns the delay to subtract from observed reaction times.
func (c *CalibrationResult) Compensation() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.CompensationMillis * float64(time.Millisecond))
}
