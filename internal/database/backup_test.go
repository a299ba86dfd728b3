package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kovaidetail/internal/config"
	"kovaidetail/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "source.db")
	backupDir := filepath.Join(tempDir, "backups")

	logger := zerolog.Nop()
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	user := &models.User{Name: "u", Email: "u@example.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, db.CreateUser(context.Background(), user))

	svc := NewBackupService(dbPath, config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	files, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	// The snapshot must be a readable database containing the data.
	copyDB, err := NewDB(filepath.Join(backupDir, files[0].Name()), &logger)
	require.NoError(t, err)
	defer copyDB.Close()

	found, err := copyDB.GetUserByEmail(context.Background(), "u@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestCleanupOldBackups(t *testing.T) {
	tempDir := t.TempDir()
	backupDir := filepath.Join(tempDir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))

	oldFile := filepath.Join(backupDir, "backup_old.db")
	freshFile := filepath.Join(backupDir, "backup_fresh.db")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

	stale := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(oldFile, stale, stale))

	logger := zerolog.Nop()
	svc := NewBackupService(filepath.Join(tempDir, "ignored.db"), config.BackupConfig{
		Enabled:       true,
		RetentionDays: 14,
		StoragePath:   backupDir,
	}, &logger)

	svc.CleanupOldBackups()

	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, freshFile)
}
