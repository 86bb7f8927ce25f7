// internal/models/payment.go
package models

// PaymentType is the kind of ledger entry. The workflow core only ever
// writes aid disbursements.
type PaymentType string

const PaymentTypeAidDisbursement PaymentType = "aid_disbursement"

// PaymentMethod is how a payment was made.
type PaymentMethod string

const PaymentMethodBankTransfer PaymentMethod = "bank_transfer"

// PaymentStatus of a ledger entry. Disbursements are recorded as already
// completed; the ledger is append-only from this core's perspective.
type PaymentStatus string

const PaymentStatusCompleted PaymentStatus = "completed"

// Payment is an entry in the payment ledger.
type Payment struct {
	ID          string        `json:"id"`
	Type        PaymentType   `json:"type"`
	Payee       string        `json:"payee"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	Description string        `json:"description"`
	Method      PaymentMethod `json:"method"`
	Status      PaymentStatus `json:"status"`
	PaymentDate string        `json:"paymentDate"`
	CreatedAt   string        `json:"createdAt"`
}
