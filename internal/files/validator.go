package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile marks inputs the loader cannot read.
var ErrUnsupportedFile = errors.New("unsupported input file")

// Validator checks input files and output directories before a run
type Validator struct {
	logger  *slog.Logger
	maxSize int64
}

// NewValidator creates a validator. maxSize caps input files; zero
// disables the check.
func NewValidator(logger *slog.Logger, maxSize int64) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		logger:  logger,
		maxSize: maxSize,
	}
}

// ValidateInputFile checks that path is a readable spreadsheet export
// within the size limit.
func (v *Validator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("%w: %s is a temporary Excel file", ErrUnsupportedFile, path)
	}
	if !IsSpreadsheet(base) {
		v.logger.Error("File is not a spreadsheet export",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(base)))
		return fmt.Errorf("%w: %s (want .csv or .xlsx)", ErrUnsupportedFile, path)
	}
	if v.maxSize > 0 && info.Size() > v.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrUnsupportedFile, path, info.Size(), v.maxSize)
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *Validator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
