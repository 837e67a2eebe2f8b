package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapPgError translates storage-level failures into the caller-visible
// taxonomy. The unique constraints backstop the write-time checks for
// slugs and pending transfers, so constraint names map to the same codes
// the checks produce.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errNotFound("not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		switch pgErr.ConstraintName {
		case "organizations_slug_key":
			return newServiceError(http.StatusConflict, CodeDuplicateSlug, "slug already exists", err)
		case "memberships_organization_id_staff_id_key":
			return newServiceError(http.StatusConflict, CodeAlreadyMember, "staff member already belongs to organization", err)
		case "client_assignments_client_id_organization_id_key":
			return newServiceError(http.StatusConflict, CodeAlreadyAssigned, "client already assigned to organization", err)
		case "transfers_client_pending_key":
			return newServiceError(http.StatusConflict, CodeDuplicatePending, "client already has a pending transfer", err)
		default:
			return newServiceError(http.StatusConflict, CodeValidation, "unique constraint violated", err)
		}
	case "23503": // foreign_key_violation
		return newServiceError(http.StatusUnprocessableEntity, CodeValidation, "foreign key violation", err)
	default:
		return newServiceError(http.StatusInternalServerError, CodeInternal, fmt.Sprintf("database error (%s)", pgErr.Code), err)
	}
}
