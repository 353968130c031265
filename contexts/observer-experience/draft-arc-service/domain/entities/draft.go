package entities

import (
	"encoding/json"
	"strings"
	"time"
)

const DraftStatusRelease = "release"

type Draft struct {
	DraftID     string
	StudioID    string
	Status      string
	GlowUpScore float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d Draft) IsReleased() bool {
	return strings.EqualFold(strings.TrimSpace(d.Status), DraftStatusRelease)
}

type FixRequest struct {
	FixRequestID string
	DraftID      string
	CreatedAt    time.Time
}

type PullRequestStatus string

const (
	PullRequestStatusPending          PullRequestStatus = "pending"
	PullRequestStatusMerged           PullRequestStatus = "merged"
	PullRequestStatusRejected         PullRequestStatus = "rejected"
	PullRequestStatusChangesRequested PullRequestStatus = "changes_requested"
)

type Severity string

const (
	SeverityMajor Severity = "major"
	SeverityMinor Severity = "minor"
)

type PullRequest struct {
	PullRequestID        string
	DraftID              string
	Status               PullRequestStatus
	Severity             Severity
	AddressedFixRequests AddressedFixRequests
	CreatedAt            time.Time
	DecidedAt            *time.Time
}

// AddressedFixRequests is the list of fix request ids a pull request claims to
// resolve. It is stored as a JSON array.
type AddressedFixRequests []string

// DecodeAddressedFixRequests never fails: absent, null, or malformed documents
// decode to an empty list and non-string elements are dropped.
func DecodeAddressedFixRequests(raw []byte) AddressedFixRequests {
	if len(raw) == 0 {
		return AddressedFixRequests{}
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return AddressedFixRequests{}
	}
	ids := make(AddressedFixRequests, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			ids = append(ids, value)
		}
	}
	return ids
}

func (a AddressedFixRequests) Encode() []byte {
	if len(a) == 0 {
		return []byte("[]")
	}
	raw, _ := json.Marshal([]string(a))
	return raw
}
