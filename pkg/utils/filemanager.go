// =============================================================================
// Buyer Ledger - File Manager Utility
// =============================================================================
//
// File management for spreadsheet imports:
//   - Discovery of pending xlsx files in a drop directory
//   - Archival of imported spreadsheets under unique names
//   - Retention cleanup of old archives
//
// ARCHIVAL STRATEGY:
//   Imported files are MOVED to the archive directory and renamed with a
//   timestamp and a UUID so repeated uploads of "sales.xlsx" never collide.
//   Files that fail to import stay where they are.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileManager handles import file operations.
type FileManager struct {
	// ArchiveDir is where imported spreadsheets are moved.
	ArchiveDir string

	// ArchiveOnImport disables archival entirely when false.
	ArchiveOnImport bool
}

// NewFileManager creates a FileManager archiving into archiveDir.
func NewFileManager(archiveDir string) *FileManager {
	return &FileManager{
		ArchiveDir:      archiveDir,
		ArchiveOnImport: true,
	}
}

// EnsureDirectories creates the archive directory if it does not exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.ArchiveDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.ArchiveDir, err)
	}
	return nil
}

// DiscoverSpreadsheets lists xlsx files in dir, skipping Excel lock files
// (the "~$" prefix left by an open workbook).
func DiscoverSpreadsheets(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var files []string
	for _, file := range matches {
		if strings.HasPrefix(filepath.Base(file), "~$") {
			continue
		}
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

// ArchiveImport moves an imported spreadsheet into the archive under a
// unique name and returns the archive path.
func (fm *FileManager) ArchiveImport(filePath string) (string, error) {
	if !fm.ArchiveOnImport {
		return filePath, nil
	}

	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	archivePath := filepath.Join(fm.ArchiveDir, ArchiveName(filePath))

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename fails across devices; fall back to copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// ArchiveName builds a collision-free archive name for a file:
//
//	sales.xlsx -> sales_20240305_143022_a1b2c3d4.xlsx
func ArchiveName(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	id := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("%s_%s_%s%s", stem, time.Now().Format("20060102_150405"), id, ext)
}

// CleanOldArchives removes archived files older than maxAge and returns the
// number removed.
func (fm *FileManager) CleanOldArchives(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(fm.ArchiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}
	return removed, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
