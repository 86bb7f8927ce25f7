// internal/workflow/approval/transitions.go
package approval

import "aid-workflow/internal/models"

// transitionTable lists every allowed evaluator move. Entering completed is
// reserved for the disbursement gate and entering rejected_by_chair for the
// chair decision, so neither appears as a target here. No transition
// re-enters pending.
var transitionTable = map[models.Status][]models.Status{
	models.StatusPending:     {models.StatusUnderReview, models.StatusApproved, models.StatusRejected},
	models.StatusUnderReview: {models.StatusApproved, models.StatusRejected},
}

// evaluateTargets is the closed set of statuses the generic Evaluate entry
// point may request. Chair-only outcomes and completed are excluded.
var evaluateTargets = map[models.Status]bool{
	models.StatusPending:     true,
	models.StatusUnderReview: true,
	models.StatusApproved:    true,
	models.StatusRejected:    true,
}

// CanTransition reports whether the table allows moving from one status to
// another. Terminal statuses allow nothing.
func CanTransition(from, to models.Status) bool {
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsEvaluateTarget reports whether a status may be requested through
// Evaluate at all, regardless of the current state.
func IsEvaluateTarget(target models.Status) bool {
	return evaluateTargets[target]
}
