package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	t.Parallel()

	for _, steps := range []int{0, -1} {
		err := MigrateDown("postgres://localhost/none", "file://migrations", steps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "steps must be greater than 0")
	}
}

func TestMigrateUp_InvalidSource(t *testing.T) {
	t.Parallel()

	err := MigrateUp("postgres://localhost/none", "not-a-source")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create migrate instance")
}

func TestMigrationStatus_InvalidSource(t *testing.T) {
	t.Parallel()

	_, _, err := MigrationStatus("postgres://localhost/none", "not-a-source")
	assert.Error(t, err)
}
