// Package pgerrors распознаёт коды ошибок PostgreSQL, которые репозитории
// переводят в доменные ошибки.
package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

const (
	CodeUniqueViolation     pq.ErrorCode = "23505"
	CodeForeignKeyViolation pq.ErrorCode = "23503"
	CodeCheckViolation      pq.ErrorCode = "23514"
	CodeExclusionViolation  pq.ErrorCode = "23P01"
	CodeSerializationFailed pq.ErrorCode = "40001"
)

// Code returns the SQLSTATE of err or "" when err is not a *pq.Error
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// Constraint returns the violated constraint name if any
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return Code(err) == CodeCheckViolation
}

// IsExclusionViolation true when an EXCLUDE constraint rejected the row
func IsExclusionViolation(err error) bool {
	return Code(err) == CodeExclusionViolation
}

// IsSerializationFailure true when a SERIALIZABLE transaction lost a conflict
func IsSerializationFailure(err error) bool {
	return Code(err) == CodeSerializationFailed
}
