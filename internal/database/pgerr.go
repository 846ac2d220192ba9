package database

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// UniqueViolationCode indicates a unique constraint violation.
	UniqueViolationCode = "23505"
	// ForeignKeyViolationCode indicates a foreign key violation.
	ForeignKeyViolationCode = "23503"
	// NotNullViolationCode indicates a NULL written to a NOT NULL column.
	NotNullViolationCode = "23502"
	// CheckViolationCode indicates a check constraint violation.
	CheckViolationCode = "23514"
)

// Kind is a coarse class of database failure.
type Kind string

const (
	KindUniqueViolation     Kind = "unique_violation"
	KindForeignKeyViolation Kind = "foreign_key_violation"
	KindNotNullViolation    Kind = "not_null_violation"
	KindCheckViolation      Kind = "check_violation"
	KindQuery               Kind = "query"
	KindConnection          Kind = "connection"
	KindCanceled            Kind = "canceled"
	KindOther               Kind = "other"
)

func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Classify maps a driver error to a Kind. Server-side errors are keyed
// on SQLSTATE; transport failures and context errors get their own kinds.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if pe, ok := AsPgError(err); ok {
		switch pe.Code {
		case UniqueViolationCode:
			return KindUniqueViolation
		case ForeignKeyViolationCode:
			return KindForeignKeyViolation
		case NotNullViolationCode:
			return KindNotNullViolation
		case CheckViolationCode:
			return KindCheckViolation
		}
		// Class 08 is "connection exception".
		if len(pe.Code) == 5 && pe.Code[:2] == "08" {
			return KindConnection
		}
		return KindQuery
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return KindConnection
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return KindConnection
	}
	return KindOther
}
