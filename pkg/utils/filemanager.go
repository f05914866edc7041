// =============================================================================
// XML to CSV Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for batch conversion:
//   - File discovery and scanning
//   - Output file naming
//   - File archival (moving converted sources)
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Sources are moved to the input archive only after a successful conversion
//   - Failed sources remain in their original location
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for batch conversion.
type FileManager struct {
	// InputDir is the directory scanned for source files.
	InputDir string

	// OutputDir is the directory where converted files are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived source files.
	InputArchiveDir string

	// ArchiveOnSuccess determines whether sources are archived after conversion.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string, archiveOnSuccess bool) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: archiveOnSuccess,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory, and the archive directory
// when archiving is enabled. The input directory must already exist.
func (fm *FileManager) EnsureDirectories() error {
	info, err := os.Stat(fm.InputDir)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", fm.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input directory %s is not a directory", fm.InputDir)
	}

	dirs := []string{fm.OutputDir}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.InputArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles returns the regular files in the input directory that
// match pattern, sorted by name. An empty pattern means "*.xml".
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.xml"
	}

	files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, file := range files {
		if IsRegularFile(file) {
			result = append(result, file)
		}
	}
	sort.Strings(result)

	return result, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName builds an output file name from format.
//
// PARAMETERS:
//   - format: The format string. Placeholders:
//       {name}      - Source file name without extension
//       {uuid}      - A random UUID
//       {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//   - sourcePath: The source file, used for {name}.
//   - ext: The required extension, e.g. ".csv". Appended when missing.
//
// EXAMPLE:
//   format: "{name}_{timestamp}"
//   source: "input/orders.xml"
//   output: "orders_20240115_143022.csv"
func GenerateOutputFileName(format, sourcePath, ext string) string {
	return generateOutputFileName(format, sourcePath, ext, time.Now(), uuid.NewString)
}

func generateOutputFileName(format, sourcePath, ext string, now time.Time, newID func() string) string {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	result := format
	result = strings.ReplaceAll(result, "{name}", name)
	result = strings.ReplaceAll(result, "{timestamp}", now.Format("20060102_150405"))
	if strings.Contains(result, "{uuid}") {
		result = strings.ReplaceAll(result, "{uuid}", newID())
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a converted source into the archive directory and
// returns its new path. It does nothing when archiving is disabled.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))

	if err := os.MkdirAll(fm.InputArchiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

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

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
