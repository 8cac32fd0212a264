// Package risk scores login attempts from device and geo signals against a
// user's recorded login activity.
package risk

import (
	"context"
	"fmt"

	"github.com/campushq/edge-auth/internal/domain"
)

// ActivityReader is the user-activity collaborator the engine scores against.
type ActivityReader interface {
	IsTrustedDevice(ctx context.Context, userID uint, deviceID string) (bool, error)
	LoginHistory(ctx context.Context, userID uint) ([]domain.LoginRecord, error)
}

// Policy constants. Retunable, but the three checks stay independently
// additive and the level stays a monotonic step function of the score.
const (
	unknownDevicePoints   = 30
	botPoints             = 50
	countryMismatchPoints = 60
)

type Engine struct {
	activity ActivityReader
}

func NewEngine(activity ActivityReader) *Engine {
	return &Engine{activity: activity}
}

// Score runs the additive heuristic checks. Activity-store failures propagate
// so issuance fails closed instead of defaulting to a falsely low score.
func (e *Engine) Score(ctx context.Context, userID uint, device domain.DeviceInfo, geo domain.GeoInfo) (domain.RiskAssessment, error) {
	score := 0

	trusted, err := e.activity.IsTrustedDevice(ctx, userID, device.DeviceID)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("trusted device lookup for user %d: %w", userID, err)
	}
	if !trusted {
		score += unknownDevicePoints
	}

	if device.Type == domain.DeviceBot {
		score += botPoints
	}

	if geo.CountryCode != domain.UnknownCountryCode {
		history, err := e.activity.LoginHistory(ctx, userID)
		if err != nil {
			return domain.RiskAssessment{}, fmt.Errorf("login history lookup for user %d: %w", userID, err)
		}
		for _, rec := range history {
			if rec.CountryCode != geo.CountryCode {
				score += countryMismatchPoints
				break
			}
		}
	}

	return domain.RiskAssessment{Score: score, Level: LevelFor(score)}, nil
}

// LevelFor buckets a score. Boundaries are strict: a score of exactly 50 is
// Medium, not High.
func LevelFor(score int) domain.RiskLevel {
	switch {
	case score > 80:
		return domain.RiskCritical
	case score > 50:
		return domain.RiskHigh
	case score > 20:
		return domain.RiskMedium
	}
	return domain.RiskLow
}
