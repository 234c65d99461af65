package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitpilot/internal/shared/testutil"
)

// writeFiles creates the named files, each one second newer than the last.
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))
		mod := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
}

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base", nil)

	assert.NotNil(t, discovery)
	assert.Equal(t, "/test/base", discovery.basePath)
	assert.NotNil(t, discovery.logger)
}

func TestFindSpreadsheets(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "mixed file types",
			files:    []string{"orders.csv", "costs.XLSX", "notes.pdf", "readme.md"},
			expected: []string{"orders.csv", "costs.XLSX"},
		},
		{
			name:     "skips lock and hidden files",
			files:    []string{"~$orders.xlsx", ".costs.csv", "orders.xlsm"},
			expected: []string{"orders.xlsm"},
		},
		{
			name:     "empty directory",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)
			logger, _ := testutil.NewTestLogger(t)

			found, err := NewDiscovery(dir, logger).FindSpreadsheets(".")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFindSpreadsheets_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir(), nil).FindSpreadsheets("nope")
	assert.Error(t, err)
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"EtsySoldOrders2024.csv",
		"supply_costs_old.csv",
		"EtsySoldOrders2025.csv",
		"supply_costs.xlsx",
		"inventory.csv",
	)
	logger, _ := testutil.NewTestLogger(t)

	sources, err := NewDiscovery("", logger).DiscoverSources(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "EtsySoldOrders2025.csv"), sources.Orders)
	assert.Equal(t, filepath.Join(dir, "supply_costs.xlsx"), sources.Costs)
}

func TestDiscoverSources_OnlyOrders(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "orders.csv")

	sources, err := NewDiscovery(dir, nil).DiscoverSources(".")
	require.NoError(t, err)
	assert.NotEmpty(t, sources.Orders)
	assert.Empty(t, sources.Costs)
}

func TestDiscoverSources_NothingRecognized(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "inventory.csv", "photo.png")

	_, err := NewDiscovery(dir, nil).DiscoverSources(".")
	assert.ErrorIs(t, err, ErrNoSourceFiles)
}

func TestClassify(t *testing.T) {
	tests := map[string]Role{
		"EtsySoldOrders2025.csv": RoleOrders,
		"sales_q1.xlsx":          RoleOrders,
		"Costs.csv":              RoleCosts,
		"material_expenses.csv":  RoleCosts,
		"order_costs.csv":        RoleCosts,
		"inventory.csv":          RoleUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
}
