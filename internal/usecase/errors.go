package usecase

import (
	"errors"
	"strings"

	"hospital-appointment/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrForbidden = apperror.New(apperror.KindForbidden, "you don't have permission to perform this action")

	ErrDoctorNotFound      = apperror.New(apperror.KindNotFound, "doctor not found")
	ErrSlotNotFound        = apperror.New(apperror.KindNotFound, "slot not found")
	ErrAppointmentNotFound = apperror.New(apperror.KindNotFound, "appointment not found")
	ErrUserNotFound        = apperror.New(apperror.KindNotFound, "user not found")

	ErrSlotDoctorMismatch = apperror.New(apperror.KindInvalidRequest, "slot does not belong to the specified doctor")
	ErrSlotAlreadyBooked  = apperror.New(apperror.KindConflict, "slot is already booked")
	ErrInvalidStatus      = apperror.New(apperror.KindInvalidRequest, "invalid status")
	ErrNoFieldsToUpdate   = apperror.New(apperror.KindInvalidRequest, "no fields to update")
	ErrNoSlots            = apperror.New(apperror.KindInvalidRequest, "each request must include at least one slot")
	ErrInvalidSlotDate    = apperror.New(apperror.KindInvalidRequest, "invalid date format, use YYYY-MM-DD")
	ErrInvalidSlotTime    = apperror.New(apperror.KindInvalidRequest, "invalid time format, use HH:MM")

	ErrEmailAlreadyExists      = apperror.New(apperror.KindConflict, "email is already registered")
	ErrSelfRegistrationRefused = apperror.New(apperror.KindForbidden, "only patients can self-register")
	ErrInvalidCredentials      = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrInvalidToken            = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrTokenRevoked            = apperror.New(apperror.KindUnauthorized, "token has been revoked")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isAppError reports whether err already carries a client-facing kind, so it
// can be returned without logging.
func isAppError(err error) bool {
	return apperror.KindOf(err) != apperror.KindUnexpected
}
