// Package alert decides which driver alerts apply to a single form
// submission, runs the captcha that guards the "no alcohol" answer, and
// dispatches the resulting messages through a notifier.
package alert

import (
	"fmt"
	"math"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
)

// OverspeedThreshold is the speed in km/h above which a driver is
// overspeeding. Exactly 100 is not overspeeding.
const OverspeedThreshold = 100.0

// AlcoholMessage is sent whenever alcohol is detected.
const AlcoholMessage = "🍺 Alcohol detected! Driver attempting to drive."

// CaptchaResult is the outcome of the captcha for one interaction.
type CaptchaResult int

const (
	// CaptchaNotAttempted means no verification happened before the trigger.
	CaptchaNotAttempted CaptchaResult = iota
	CaptchaMatch
	CaptchaMismatch
)

func (r CaptchaResult) String() string {
	switch r {
	case CaptchaMatch:
		return "match"
	case CaptchaMismatch:
		return "mismatch"
	default:
		return "not_attempted"
	}
}

// Decision is the verdict for one submission.
type Decision struct {
	Speed        float64  `json:"speed"`
	Overspeeding bool     `json:"overspeeding"`
	Alcohol      bool     `json:"alcohol"`
	Messages     []string `json:"messages"`
}

// HasAlert reports whether any message must be sent.
func (d Decision) HasAlert() bool {
	return len(d.Messages) > 0
}

// OverspeedMessage formats the overspeeding alert for speed.
func OverspeedMessage(speed float64) string {
	return fmt.Sprintf("🚗 Overspeeding detected: %s km/h", domain.FormatNumber(speed))
}

// ValidateSpeed rejects speeds Decide cannot judge.
func ValidateSpeed(speed float64) error {
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return &domain.ValidationError{Field: "speed", Message: "must be a finite number"}
	}
	if speed < 0 {
		return &domain.ValidationError{Field: "speed", Message: "must not be negative"}
	}
	return nil
}

// Decide applies the alert rules. When the driver denies drinking, only a
// matching captcha keeps alcohol clear; a mismatch or a skipped captcha is
// treated as alcohol detected.
func Decide(speed float64, selfReportedAlcohol bool, captcha CaptchaResult) (Decision, error) {
	if err := ValidateSpeed(speed); err != nil {
		return Decision{}, err
	}

	alcohol := selfReportedAlcohol
	if !selfReportedAlcohol && captcha != CaptchaMatch {
		alcohol = true
	}

	d := Decision{
		Speed:        speed,
		Overspeeding: speed > OverspeedThreshold,
		Alcohol:      alcohol,
		Messages:     []string{},
	}
	if d.Overspeeding {
		d.Messages = append(d.Messages, OverspeedMessage(speed))
	}
	if d.Alcohol {
		d.Messages = append(d.Messages, AlcoholMessage)
	}
	return d, nil
}
