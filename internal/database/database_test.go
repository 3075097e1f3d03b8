package database_test

import (
	"testing"

	"bookclub/internal/database"
	"bookclub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesSQLite(t *testing.T) {
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: database.MemoryDSN(uuid.NewString())})
	require.NoError(t, err)
	defer database.Close(db)

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.ReadingProgress{}, "idx_progress_key"))
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(database.Options{Driver: "mongodb", DSN: "x"})
	assert.Error(t, err)
}
