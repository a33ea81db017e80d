package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"vistoria/internal/models"
	"vistoria/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUpload(t *testing.T, dir, name string, modified time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	require.NoError(t, os.Chtimes(path, modified, modified))
	return path
}

func TestUploadCleanupService_CleanupOrphans(t *testing.T) {
	db := setupSQLite(t)
	dir := t.TempDir()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	inspection := seedFinalized(t, db, "")
	room := &models.Room{PropertyID: inspection.PropertyID, Name: "Kitchen", Exists: true}
	require.NoError(t, db.SQL.Create(room).Error)
	item := &models.ChecklistItem{InspectionID: inspection.ID, RoomID: room.ID, Label: models.LabelFloor}
	require.NoError(t, db.SQL.Create(item).Error)

	kept := writeUpload(t, dir, "kept.jpg", now.Add(-48*time.Hour))
	orphan := writeUpload(t, dir, "orphan.jpg", now.Add(-48*time.Hour))
	fresh := writeUpload(t, dir, "fresh.jpg", now.Add(-time.Hour))

	require.NoError(t, db.SQL.Create(&models.Photo{
		ChecklistItemID: item.ID,
		URL:             "/uploads/kept.jpg",
		StoragePath:     kept,
	}).Error)

	cleanup := NewUploadCleanupService(db, repositories.NewPhotoRepository(), dir)
	cleanup.now = func() time.Time { return now }

	result, err := cleanup.CleanupOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Scanned: 3, Removed: 1}, result)

	assert.FileExists(t, kept)
	assert.FileExists(t, fresh, "files inside the grace period are left alone")
	assert.NoFileExists(t, orphan)
}

func TestUploadCleanupService_MissingDirectory(t *testing.T) {
	db := setupSQLite(t)
	cleanup := NewUploadCleanupService(db, repositories.NewPhotoRepository(), filepath.Join(t.TempDir(), "absent"))

	files, err := cleanup.ListStoredFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)

	result, err := cleanup.CleanupOrphans(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Removed)
}
