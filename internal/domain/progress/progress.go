// Package progress classifies a reviewer's voting progress on a match.
//
// The classification is a pure projection over the ledger's distinct
// attribute count for one (match, reviewer) pair; it keeps no state of
// its own and therefore can never drift from the source of truth.
package progress

import (
	"fmt"

	"github.com/okian/tribunal/internal/domain/types"
)

// Classify maps a distinct-attribute vote count onto a completion
// status: 0 is pending, the full set is completed, anything in between
// is partial.
func Classify(voted int) types.CompletionStatus {
	switch {
	case voted <= 0:
		return types.CompletionPending
	case voted >= types.AttributeCount:
		return types.CompletionCompleted
	default:
		return types.CompletionPartial
	}
}

// Of builds the completion read shape, with progress rendered as
// "x/6" regardless of submission order.
func Of(voted int) types.Completion {
	if voted < 0 {
		voted = 0
	}
	if voted > types.AttributeCount {
		voted = types.AttributeCount
	}
	return types.Completion{
		Status:   Classify(voted),
		Progress: fmt.Sprintf("%d/%d", voted, types.AttributeCount),
	}
}
