package services

import (
	"net/http"
	"testing"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapPgError(t *testing.T) {
	require.NoError(t, mapPgError(nil))

	svcErr := errValidation("boom")
	require.Equal(t, svcErr, mapPgError(svcErr))

	err := mapPgError(pgx.ErrNoRows)
	requireServiceError(t, err, CodeNotFound)

	plain := errors.New("network down")
	require.Equal(t, plain, mapPgError(plain))
}

func TestMapPgError_UniqueConstraints(t *testing.T) {
	cases := []struct {
		constraint string
		code       string
	}{
		{"organizations_slug_key", CodeDuplicateSlug},
		{"memberships_organization_id_staff_id_key", CodeAlreadyMember},
		{"client_assignments_client_id_organization_id_key", CodeAlreadyAssigned},
		{"transfers_client_pending_key", CodeDuplicatePending},
		{"some_other_key", CodeValidation},
	}
	for _, tc := range cases {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: tc.constraint}
		svcErr := requireServiceError(t, mapPgError(pgErr), tc.code)
		require.Equal(t, http.StatusConflict, svcErr.Status)
	}
}

func TestMapPgError_OtherPgCodes(t *testing.T) {
	fk := requireServiceError(t, mapPgError(&pgconn.PgError{Code: "23503"}), CodeValidation)
	require.Equal(t, http.StatusUnprocessableEntity, fk.Status)

	internal := requireServiceError(t, mapPgError(&pgconn.PgError{Code: "57014"}), CodeInternal)
	require.Equal(t, http.StatusInternalServerError, internal.Status)
}
