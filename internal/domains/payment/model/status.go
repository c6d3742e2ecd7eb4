package model

import (
	"fmt"
	"strings"
)

// RemoteStatus is the bitmask of payment states reported by the remote API.
// A payment can carry several flags at once; Resolve picks the one that counts.
type RemoteStatus uint8

const (
	StatusPending RemoteStatus = 1 << iota
	StatusProcessing
	StatusCompleted
	StatusAnnulled
	StatusCredited
	StatusAutoDebited
	StatusManualInspection
	StatusError
)

// resolutionOrder is a business rule: the first flag present wins.
var resolutionOrder = []RemoteStatus{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusAnnulled,
	StatusCredited,
	StatusAutoDebited,
	StatusManualInspection,
	StatusError,
}

var statusNames = map[RemoteStatus]string{
	StatusPending:          "PENDING",
	StatusProcessing:       "PROCESSING",
	StatusCompleted:        "COMPLETED",
	StatusAnnulled:         "ANNULLED",
	StatusCredited:         "CREDITED",
	StatusAutoDebited:      "AUTO_DEBITED",
	StatusManualInspection: "MANUAL_INSPECTION",
	StatusError:            "ERROR",
}

func (s RemoteStatus) Has(flag RemoteStatus) bool {
	return s&flag == flag && flag != 0
}

// Resolve returns the highest-priority single flag set in s.
func (s RemoteStatus) Resolve() (RemoteStatus, bool) {
	for _, flag := range resolutionOrder {
		if s.Has(flag) {
			return flag, true
		}
	}
	return 0, false
}

// String renders the set flags in resolution order, e.g. "PENDING|COMPLETED".
func (s RemoteStatus) String() string {
	if s == 0 {
		return "NONE"
	}
	var parts []string
	for _, flag := range resolutionOrder {
		if s.Has(flag) {
			parts = append(parts, statusNames[flag])
		}
	}
	return strings.Join(parts, "|")
}

// ParseRemoteStatus parses a single flag name such as "AUTO_DEBITED".
func ParseRemoteStatus(name string) (RemoteStatus, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for flag, n := range statusNames {
		if n == name {
			return flag, nil
		}
	}
	return 0, fmt.Errorf("unknown remote status %q", name)
}
