// Package engagement holds the time-threshold rules that decide whether a
// client is Active, Potential or Inactive.
package engagement

import (
	"fmt"
	"strings"
)

// Status is the engagement status of a client
type Status string

const (
	StatusActive    Status = "Active"
	StatusPotential Status = "Potential"
	StatusInactive  Status = "Inactive"
)

// AllStatuses lists every valid status in display order
var AllStatuses = []Status{StatusActive, StatusPotential, StatusInactive}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPotential, StatusInactive:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts a status name in any letter case
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (use: Active, Potential, Inactive)", raw)
}
