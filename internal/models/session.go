package models

import (
	"encoding/json"
	"time"
)

// TestType identifies one of the six cognitive tasks in the battery.
type TestType string

const (
	TestReactionTime       TestType = "reaction_time"
	TestDigitSpan          TestType = "digit_span"
	TestMentalMath         TestType = "mental_math"
	TestWordRecall         TestType = "word_recall"
	TestStroop             TestType = "stroop"
	TestSustainedAttention TestType = "sustained_attention"
)

// AllTestTypes returns the battery in menu order.
func AllTestTypes() []TestType {
	return []TestType{
		TestReactionTime,
		TestDigitSpan,
		TestMentalMath,
		TestWordRecall,
		TestStroop,
		TestSustainedAttention,
	}
}

// Title returns the human-readable name used in menus and history listings.
func (t TestType) Title() string {
	switch t {
	case TestReactionTime:
		return "Reaction Time"
	case TestDigitSpan:
		return "Digit Span"
	case TestMentalMath:
		return "Mental Math"
	case TestWordRecall:
		return "Word Recall"
	case TestStroop:
		return "Stroop Test"
	case TestSustainedAttention:
		return "Sustained Attention"
	}
	return string(t)
}

// Unit returns the fixed metric unit each test reports in.
func (t TestType) Unit() MetricUnit {
	switch t {
	case TestReactionTime:
		return UnitSeconds
	case TestDigitSpan:
		return UnitDigits
	case TestMentalMath:
		return UnitCount
	}
	return UnitPercent
}

// Valid reports whether t names a known task.
func (t TestType) Valid() bool {
	for _, known := range AllTestTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// MetricUnit is the fixed unit of a test's reported metric.
type MetricUnit string

const (
	UnitSeconds MetricUnit = "seconds"
	UnitPercent MetricUnit = "percent"
	UnitDigits  MetricUnit = "digits"
	UnitCount   MetricUnit = "count"
)

// Trial is one stimulus/response cycle. Immutable once closed by the engine.
type Trial struct {
	StimulusShownAt    time.Time     `json:"stimulusShownAt"`
	ResponseObservedAt time.Time     `json:"responseObservedAt,omitempty"`
	Response           string        `json:"response,omitempty"`
	Answered           bool          `json:"answered"`
	Correct            bool          `json:"correct"`
	RawLatency         time.Duration `json:"rawLatency,omitempty"`
	Latency            time.Duration `json:"latency,omitempty"` // compensation-corrected, never negative
}

// SessionResult summarizes one complete run of a single test type.
// Appended to the results store at test completion and never mutated.
type SessionResult struct {
	ID                 uint              `gorm:"primaryKey" json:"-"`
	SessionID          string            `gorm:"uniqueIndex;size:36" json:"session_id"`
	TestType           TestType          `gorm:"index;size:32" json:"test_type"`
	MetricValue        float64           `json:"metric_value"`
	MetricUnit         MetricUnit        `gorm:"size:16" json:"metric_unit"`
	TrialsCount        int               `json:"trials_count"`
	StartedAt          time.Time         `json:"started_at"`
	EndedAt            time.Time         `json:"ended_at"`
	CalibrationMethod  CalibrationMethod `gorm:"size:16" json:"calibration_method,omitempty"`
	CompensationMillis float64           `json:"compensation_millis,omitempty"`
	Details            json.RawMessage   `gorm:"type:text" json:"details,omitempty"`
	CreatedAt          time.Time         `json:"-"`
}

// Calibrated reports whether a compensation value was active during the run.
func (r *SessionResult) Calibrated() bool {
	return r.CalibrationMethod != ""
}

// DetailMap decodes the Details blob; returns an empty map on absence or error.
func (r *SessionResult) DetailMap() map[string]any {
	m := make(map[string]any)
	if len(r.Details) > 0 {
		_ = json.Unmarshal(r.Details, &m)
	}
	return m
}
