// internal/directory/directory.go

// Package directory resolves applicant identities. The workflow core is a
// read-only consumer of the person directory.
package directory

import (
	"context"

	"aid-workflow/internal/models"
)

// Directory looks up one person by id.
type Directory interface {
	Lookup(ctx context.Context, id string) (*models.Person, error)
}
