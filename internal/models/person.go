// internal/models/person.go
package models

import "strings"

// Person is an applicant in the person directory. The workflow core only
// reads people; directory maintenance belongs to another system.
type Person struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	NationalID string `json:"nationalId,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// FullName returns the display name used on payment records.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
