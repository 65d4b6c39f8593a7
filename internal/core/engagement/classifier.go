package engagement

import (
	"fmt"
	"time"
)

// Day thresholds, evaluated from the top. First match wins.
const (
	InactiveAfterDays  = 30
	PotentialAfterDays = 14
	KeepPaceAfterDays  = 7
)

// RiskTier describes how likely a client is to churn
type RiskTier string

const (
	RiskNone   RiskTier = "none"
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Classification is the outcome of Classify
type Classification struct {
	DaysSince         int      `json:"daysSinceLastInteraction"`
	CurrentStatus     Status   `json:"currentStatus"`
	RecommendedStatus Status   `json:"recommendedStatus"`
	Risk              RiskTier `json:"risk"`
	NeedsChange       bool     `json:"needsChange"`
	Analysis          string   `json:"analysis"`
	Recommendation    string   `json:"recommendation"`
}

// DaysSince returns the whole days elapsed between last and now.
// Timestamps in the future count as zero days.
func DaysSince(now, last time.Time) int {
	elapsed := now.Sub(last)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

// InactiveCutoff returns the latest last-interaction time that Classify
// reports as Inactive at now. A client whose last interaction is at or
// before the cutoff has more than InactiveAfterDays whole days without contact.
func InactiveCutoff(now time.Time) time.Time {
	return now.Add(-(InactiveAfterDays + 1) * 24 * time.Hour)
}

// Classify maps the time since the last interaction to a recommended status
// and renders the analysis/recommendation texts shown to users.
func Classify(now, lastInteraction time.Time, current Status) Classification {
	days := DaysSince(now, lastInteraction)

	c := Classification{
		DaysSince:     days,
		CurrentStatus: current,
	}

	switch {
	case days > InactiveAfterDays:
		c.RecommendedStatus = StatusInactive
		c.Risk = RiskHigh
		c.Analysis = fmt.Sprintf("⚠️ Inactive client: %d days without contact. Current status: %q.", days, current)
	case days > PotentialAfterDays:
		c.RecommendedStatus = StatusPotential
		c.Risk = RiskMedium
		c.Analysis = fmt.Sprintf("⚡ Client at risk: %d days without interaction. Current status: %q.", days, current)
	case days > KeepPaceAfterDays:
		c.RecommendedStatus = StatusActive
		c.Risk = RiskLow
		c.Analysis = fmt.Sprintf("✅ Active client: %d days since last interaction. Current status: %q.", days, current)
	default:
		c.RecommendedStatus = StatusActive
		c.Risk = RiskNone
		c.Analysis = fmt.Sprintf("🎯 Highly engaged client: %d days since last interaction. Current status: %q.", days, current)
	}

	c.NeedsChange = current != c.RecommendedStatus
	c.Recommendation = recommendationText(c.RecommendedStatus, c.Risk, c.NeedsChange)

	return c
}

func recommendationText(recommended Status, risk RiskTier, needsChange bool) string {
	if !needsChange {
		switch risk {
		case RiskHigh:
			return fmt.Sprintf("✅ STATUS ALREADY CORRECT: client is already marked %q. High priority for re-contact.", recommended)
		case RiskMedium:
			return fmt.Sprintf("✅ STATUS ALREADY CORRECT: client is already marked %q. Schedule a follow-up within the next 3 days.", recommended)
		case RiskLow:
			return fmt.Sprintf("✅ STATUS ALREADY CORRECT: client is already marked %q. Keep the current contact pace.", recommended)
		default:
			return fmt.Sprintf("✅ STATUS ALREADY CORRECT: client is already marked %q and highly engaged. Keep the relationship going.", recommended)
		}
	}

	switch risk {
	case RiskHigh:
		return fmt.Sprintf("🔴 ACTION REQUIRED: change status to %q and contact urgently. This client is at risk of being lost.", recommended)
	case RiskMedium:
		return fmt.Sprintf("🟡 ACTION REQUIRED: change status to %q and schedule a follow-up within the next 3 days.", recommended)
	default:
		return fmt.Sprintf("🟢 ACTION REQUIRED: change status to %q, the client is engaged.", recommended)
	}
}
