// internal/directory/postgres_test.go
package directory

import (
	"context"
	"testing"

	"aid-workflow/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM people").
		WithArgs("person-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "national_id", "phone"}).
			AddRow("person-1", "Ayse", "Yilmaz", "12345678901", "+90 555 111 2233"))

	p, err := NewPostgresDirectory(db).Lookup(context.Background(), "person-1")

	require.NoError(t, err)
	assert.Equal(t, "Ayse Yilmaz", p.FullName())
	assert.Equal(t, "+90 555 111 2233", p.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLookupNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM people").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "national_id", "phone"}))

	_, err = NewPostgresDirectory(db).Lookup(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeApplicantNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLookupQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM people").
		WithArgs("person-1").
		WillReturnError(assert.AnError)

	_, err = NewPostgresDirectory(db).Lookup(context.Background(), "person-1")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQueryExecutionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
