package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty input returns default", "", 5, 1, 1},
		{"Valid choice within range", "3", 5, 1, 3},
		{"Choice below minimum returns default", "0", 5, 1, 1},
		{"Choice above maximum returns default", "6", 5, 1, 1},
		{"Invalid input returns default", "abc", 5, 2, 2},
		{"Negative number returns default", "-1", 5, 1, 1},
		{"Whitespace returns default", "   ", 5, 1, 1},
		{"Maximum value is valid", "5", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 1, indexOf(domain.AllSchedulers(), domain.SchedulerPool))
	assert.Equal(t, 0, indexOf(domain.AllSchedulers(), domain.SchedulerKind("other")))
}

func TestSettingsShow(t *testing.T) {
	env := setupCLITest(t)
	env.settings.settings.StorePath = "/work/history"
	env.settings.settings.ArchiveRate = 2.5

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Directory: /work/zips")
	assert.Contains(t, out, "Workers: 5")
	assert.Contains(t, out, domain.SchedulerWave.Description())
	assert.Contains(t, out, domain.ExtractionTagged.Description())
	assert.Contains(t, out, "Member timeout: 30s")
	assert.Contains(t, out, "Archive rate: 2.5/s")
	assert.Contains(t, out, "Levels: /work/levels.csv")
	assert.Contains(t, out, "Mode: truncate")
	assert.Contains(t, out, "Store: /work/history")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_Default(t *testing.T) {
	env := setupCLITest(t)
	env.settings.settings.MemberTimeout = 0

	out, err := execute("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Member timeout: disabled")
	assert.Contains(t, out, "Archive rate: unlimited")
	assert.Contains(t, out, "Store: disabled")
}

func TestSettingsShow_InvalidStored(t *testing.T) {
	env := setupCLITest(t)
	env.settings.settings.Workers = 0

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestSettingsSet(t *testing.T) {
	env := setupCLITest(t)

	out, err := execute("settings", "set", "processor.workers", "9")

	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"processor.workers", "9"}}, env.settings.sets)
	assert.Contains(t, out, "Set processor.workers = 9")
}

func TestSettingsSet_InvalidListsKeys(t *testing.T) {
	env := setupCLITest(t)
	env.settings.setErr = fmt.Errorf("%w: unknown setting", domain.ErrInvalidInput)

	out, err := execute("settings", "set", "nope", "1")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, out, "Valid keys: archive.dir, processor.workers")
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	setupCLITest(t)

	_, err := execute("settings", "set", "processor.workers")

	assert.Error(t, err)
}

func TestSettingsWizard(t *testing.T) {
	env := setupCLITest(t)
	rootCmd.SetIn(strings.NewReader("2\n2\n12\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute("settings", "wizard")

	require.NoError(t, err)
	require.NotNil(t, env.settings.saved)
	assert.Equal(t, domain.SchedulerPool, env.settings.saved.Scheduler)
	assert.Equal(t, domain.ExtractionPositional, env.settings.saved.Extraction)
	assert.Equal(t, 12, env.settings.saved.Workers)
	assert.Equal(t, 30*time.Second, env.settings.saved.MemberTimeout)
	assert.Contains(t, out, "Configuration Complete!")
}

func TestSettingsWizard_DefaultsKeepCurrent(t *testing.T) {
	env := setupCLITest(t)
	rootCmd.SetIn(strings.NewReader("\n\n\n"))
	defer rootCmd.SetIn(nil)

	_, err := execute("settings", "wizard")

	require.NoError(t, err)
	require.NotNil(t, env.settings.saved)
	assert.Equal(t, domain.SchedulerWave, env.settings.saved.Scheduler)
	assert.Equal(t, domain.ExtractionTagged, env.settings.saved.Extraction)
	assert.Equal(t, 5, env.settings.saved.Workers)
}

func TestSettings_NotConfigured(t *testing.T) {
	setupCLITest(t)
	settingsService = nil

	for _, args := range [][]string{{"settings", "show"}, {"settings", "set", "a", "b"}, {"settings", "wizard"}} {
		_, err := execute(args...)
		assert.EqualError(t, err, "settings service not configured", strings.Join(args, " "))
	}
}
