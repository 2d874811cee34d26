package fantasy

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSquad = errors.New("invalid squad")

// IssueKind names one squad rule violation.
type IssueKind string

const (
	IssueInvalidComposition IssueKind = "InvalidComposition"
	IssueClubQuotaExceeded  IssueKind = "ClubQuotaExceeded"
	IssueBudgetExceeded     IssueKind = "BudgetExceeded"
	IssueInvalidFormation   IssueKind = "InvalidFormation"
	IssueMissingCaptain     IssueKind = "MissingCaptain"
	IssueMissingViceCaptain IssueKind = "MissingViceCaptain"
)

// Issue is a single problem found by Validate. Club is only set for
// ClubQuotaExceeded.
type Issue struct {
	Kind    IssueKind
	Club    string
	Message string
}

func (i Issue) String() string {
	return string(i.Kind) + ": " + i.Message
}

// ValidationError carries every issue of a rejected squad.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSquad, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSquad
}

func (e *ValidationError) Has(kind IssueKind) bool {
	for _, issue := range e.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

// AsError returns nil for an empty issue list.
func AsError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
