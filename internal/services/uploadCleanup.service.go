package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"vistoria/internal/database"
	"vistoria/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// Files younger than this may belong to an upload whose photo row is not committed yet.
const UPLOAD_CLEANUP_GRACE = 24 * time.Hour

type StoredFile struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

type CleanupResult struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
}

// UploadCleanupService removes files from the local upload directory that no photo references.
type UploadCleanupService struct {
	db     database.DB
	photos repositories.PhotoRepository
	dir    string
	grace  time.Duration
	now    func() time.Time
	log    logger.Logger
}

func NewUploadCleanupService(
	db database.DB,
	photos repositories.PhotoRepository,
	dir string,
) *UploadCleanupService {
	return &UploadCleanupService{
		db:     db,
		photos: photos,
		dir:    dir,
		grace:  UPLOAD_CLEANUP_GRACE,
		now:    time.Now,
		log:    logger.New("uploadCleanupService"),
	}
}

func (s *UploadCleanupService) ListStoredFiles(ctx context.Context) ([]StoredFile, error) {
	log := s.log.Function("ListStoredFiles")

	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		log.Debug("Upload directory does not exist", "directory", s.dir)
		return []StoredFile{}, nil
	}

	var files []StoredFile
	err := filepath.WalkDir(s.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		files = append(files, StoredFile{
			Path:       path,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to walk upload directory", err, "directory", s.dir)
	}

	return files, nil
}

// CleanupOrphans deletes files past the grace period whose path is not stored on any photo.
func (s *UploadCleanupService) CleanupOrphans(ctx context.Context) (CleanupResult, error) {
	log := s.log.Function("CleanupOrphans")

	files, err := s.ListStoredFiles(ctx)
	if err != nil {
		return CleanupResult{}, err
	}

	cutoff := s.now().Add(-s.grace)
	var candidates []string
	for _, file := range files {
		if file.ModifiedAt.Before(cutoff) {
			candidates = append(candidates, file.Path)
		}
	}

	result := CleanupResult{Scanned: len(files)}
	if len(candidates) == 0 {
		return result, nil
	}

	referenced, err := s.photos.ReferencedPaths(ctx, s.db.SQL, candidates)
	if err != nil {
		return result, err
	}

	var errs []error
	for _, path := range candidates {
		if referenced[path] {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			log.Er("failed to remove orphaned upload", err, "path", path)
			continue
		}
		result.Removed++
	}

	if len(errs) > 0 {
		return result, log.Err("failed to remove some uploads", errs[0], "errorCount", len(errs))
	}

	log.Info("Orphaned uploads removed", "scanned", result.Scanned, "removed", result.Removed)
	return result, nil
}
