package enums

import "fmt"

// ReviewStatus tracks the moderation state of a review.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "Pending"
	ReviewStatusApproved ReviewStatus = "Approved"
	ReviewStatusRejected ReviewStatus = "Rejected"
)

var validReviewStatuses = []ReviewStatus{
	ReviewStatusPending,
	ReviewStatusApproved,
	ReviewStatusRejected,
}

// String implements fmt.Stringer.
func (s ReviewStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReviewStatus.
func (s ReviewStatus) IsValid() bool {
	for _, candidate := range validReviewStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsModerationOutcome reports whether a moderator may set the status.
func (s ReviewStatus) IsModerationOutcome() bool {
	return s == ReviewStatusApproved || s == ReviewStatusRejected
}

// IsTerminal reports whether no further transition is allowed.
func (s ReviewStatus) IsTerminal() bool {
	return s.IsModerationOutcome()
}

// ParseReviewStatus converts raw input into a ReviewStatus.
func ParseReviewStatus(value string) (ReviewStatus, error) {
	for _, candidate := range validReviewStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review status %q", value)
}
