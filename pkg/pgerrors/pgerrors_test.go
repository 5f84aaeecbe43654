package pgerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	exclusion := &pq.Error{Code: CodeExclusionViolation, Constraint: "appointments_no_overlap"}
	wrapped := fmt.Errorf("insert: %w", exclusion)

	assert.True(t, IsExclusionViolation(wrapped))
	assert.False(t, IsUniqueViolation(wrapped))
	assert.Equal(t, "appointments_no_overlap", Constraint(wrapped))

	assert.True(t, IsUniqueViolation(&pq.Error{Code: CodeUniqueViolation}))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: CodeForeignKeyViolation}))
	assert.True(t, IsCheckViolation(&pq.Error{Code: CodeCheckViolation}))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: CodeSerializationFailed}))

	plain := errors.New("connection refused")
	assert.Equal(t, pq.ErrorCode(""), Code(plain))
	assert.Empty(t, Constraint(plain))
	assert.False(t, IsExclusionViolation(nil))
}
