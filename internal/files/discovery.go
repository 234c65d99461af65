package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoSourceFiles is returned when a directory holds no recognizable
// orders or costs export.
var ErrNoSourceFiles = errors.New("no orders or costs export found")

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// SourceFiles holds the paths chosen for each input. Either may be empty.
type SourceFiles struct {
	Orders string
	Costs  string
}

// Name fragments that mark a file as an orders or a costs export. Marketplace
// downloads are named like "EtsySoldOrders2025.csv".
var (
	ordersHints = []string{"order", "sold", "sales", "revenue"}
	costsHints  = []string{"cost", "expense", "purchase", "spend"}
)

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{basePath: basePath, logger: logger}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSpreadsheets lists the readable exports in dir, oldest first.
// Office lock files ("~$...") and hidden files are skipped.
func (d *Discovery) FindSpreadsheets(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") || !IsSpreadsheet(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// DiscoverSources picks the newest orders export and the newest costs
// export in dir.
func (d *Discovery) DiscoverSources(dir string) (SourceFiles, error) {
	files, err := d.FindSpreadsheets(dir)
	if err != nil {
		return SourceFiles{}, err
	}

	var sources SourceFiles
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		switch Classify(f.Name) {
		case RoleOrders:
			if sources.Orders == "" {
				sources.Orders = f.Path
			}
		case RoleCosts:
			if sources.Costs == "" {
				sources.Costs = f.Path
			}
		}
	}

	if sources.Orders == "" && sources.Costs == "" {
		return sources, fmt.Errorf("%w in %s", ErrNoSourceFiles, d.resolve(dir))
	}

	d.logger.Info("Input files discovered",
		slog.String("directory", d.resolve(dir)),
		slog.String("orders", sources.Orders),
		slog.String("costs", sources.Costs),
		slog.Int("candidates", len(files)))
	return sources, nil
}

// Role is what an export holds.
type Role int

const (
	RoleUnknown Role = iota
	RoleOrders
	RoleCosts
)

// Classify guesses what a file holds from its name. Costs hints win over
// orders hints, so "order_costs.csv" is a costs file.
func Classify(name string) Role {
	lower := strings.ToLower(name)
	for _, h := range costsHints {
		if strings.Contains(lower, h) {
			return RoleCosts
		}
	}
	for _, h := range ordersHints {
		if strings.Contains(lower, h) {
			return RoleOrders
		}
	}
	return RoleUnknown
}

// IsSpreadsheet reports whether name has an extension the loader reads.
func IsSpreadsheet(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".xlsx", ".xlsm":
		return true
	}
	return false
}
