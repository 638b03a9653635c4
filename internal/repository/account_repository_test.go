package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dupUsername := &pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_username"}
	dupEmployeeID := &pgconn.PgError{Code: "23505", ConstraintName: "idx_profiles_employee_id"}

	assert.True(t, isDuplicateKeyError(dupUsername, "idx_accounts_username"))
	assert.True(t, isDuplicateKeyError(dupEmployeeID, "idx_profiles_employee_id"))

	// Wrapping must not hide the pg error
	wrapped := fmt.Errorf("create profile: %w", dupEmployeeID)
	assert.True(t, isDuplicateKeyError(wrapped, "idx_profiles_employee_id"))

	// A unique violation on some other constraint is not this duplicate
	assert.False(t, isDuplicateKeyError(dupUsername, "idx_profiles_employee_id"))

	// Other pg error classes are not duplicates
	fkViolation := &pgconn.PgError{Code: "23503", ConstraintName: "idx_profiles_employee_id"}
	assert.False(t, isDuplicateKeyError(fkViolation, "idx_profiles_employee_id"))

	// Non-postgres errors are not duplicates
	assert.False(t, isDuplicateKeyError(fmt.Errorf("connection reset"), "idx_accounts_username"))
	assert.False(t, isDuplicateKeyError(nil, "idx_accounts_username"))
}
