package game

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettingsFile(t *testing.T, contents string) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "table-settings")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestParseTableSettings(t *testing.T) {
	path := writeSettingsFile(t, "smallBlind: 25\nbigBlind: 50\nstartingChips: 5000\nmaxSeats: 6\n")
	settings, err := ParseTableSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 25, settings.SmallBlind)
	assert.Equal(t, 50, settings.BigBlind)
	assert.Equal(t, 5000, settings.StartingChips)
	assert.Equal(t, 6, settings.MaxSeats)
}

func TestParseTableSettingsDefaults(t *testing.T) {
	// omitted keys keep the defaults
	path := writeSettingsFile(t, "maxSeats: 4\n")
	settings, err := ParseTableSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 5, settings.SmallBlind)
	assert.Equal(t, 10, settings.BigBlind)
	assert.Equal(t, 1000, settings.StartingChips)
	assert.Equal(t, 4, settings.MaxSeats)
}

func TestParseTableSettingsRejectsBadValues(t *testing.T) {
	_, err := ParseTableSettings(writeSettingsFile(t, "maxSeats: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxSeats")

	_, err = ParseTableSettings(writeSettingsFile(t, "maxSeats: 24\n"))
	require.Error(t, err)

	_, err = ParseTableSettings(writeSettingsFile(t, "smallBlind: 20\nbigBlind: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blinds")

	_, err = ParseTableSettings("/nonexistent/settings.yaml")
	require.Error(t, err)
}
