// internal/models/application.go
package models

// Status is the closed set of lifecycle states for an aid application.
// Transitions between states are validated by the approval package; a
// Status never moves backwards and the three terminal states are sinks.
type Status string

const (
	StatusPending         Status = "pending"
	StatusUnderReview     Status = "under_review"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusRejectedByChair Status = "rejected_by_chair"
	StatusCompleted       Status = "completed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusRejectedByChair, StatusCompleted:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved,
		StatusRejected, StatusRejectedByChair, StatusCompleted:
		return true
	}
	return false
}

// Priority is the human-set (or advisory) urgency of an application.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category is the kind of aid requested.
type Category string

const (
	CategoryEmergency Category = "emergency"
	CategoryEducation Category = "education"
	CategoryHealth    Category = "health"
	CategoryFood      Category = "food"
	CategoryShelter   Category = "shelter"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEmergency, CategoryEducation, CategoryHealth,
		CategoryFood, CategoryShelter, CategoryOther:
		return true
	}
	return false
}

// ChairApproval is the chair's decision on an approved application.
// It is meaningful only once the application reached StatusApproved.
type ChairApproval string

const (
	ChairApprovalUnset   ChairApproval = ""
	ChairApprovalGranted ChairApproval = "granted"
	ChairApprovalDenied  ChairApproval = "denied"
)

// ApplicationRecord is one aid application moving through the approval
// and disbursement workflow. PaymentID is set exactly when Status is
// StatusCompleted; both are written in the same commit by the
// disbursement gate.
type ApplicationRecord struct {
	ID                string        `json:"id"`
	ApplicantID       string        `json:"applicantId"`
	Category          Category      `json:"category"`
	RequestedAmount   float64       `json:"requestedAmount"`
	Priority          Priority      `json:"priority"`
	SubmittedDate     string        `json:"submittedDate"`
	Status            Status        `json:"status"`
	RequestDetail     string        `json:"requestDetail"`
	EvaluationNote    string        `json:"evaluationNote,omitempty"`
	ChairApproval     ChairApproval `json:"chairApproval,omitempty"`
	ChairApprovalNote string        `json:"chairApprovalNote,omitempty"`
	PaymentID         string        `json:"paymentId,omitempty"`
	AISummary         string        `json:"aiSummary,omitempty"`
	AIPriority        Priority      `json:"aiPriority,omitempty"`
	CreatedAt         string        `json:"createdAt"`
	UpdatedAt         string        `json:"updatedAt"`
}
