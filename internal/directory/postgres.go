// internal/directory/postgres.go
package directory

import (
	"context"
	"database/sql"

	"aid-workflow/internal/common/errors"
	"aid-workflow/internal/models"
)

// PostgresDirectory reads people from the people table.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) Lookup(ctx context.Context, id string) (*models.Person, error) {
	var p models.Person
	err := d.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, national_id, phone
		FROM people
		WHERE id = $1`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.NationalID, &p.Phone)
	if err == sql.ErrNoRows {
		return nil, errors.NewApplicantNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("lookup person", err)
	}
	return &p, nil
}
