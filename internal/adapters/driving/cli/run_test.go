package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmd_Use(t *testing.T) {
	assert.Equal(t, "run", runCmd.Use)
	assert.Contains(t, runCmd.Short, "benchmark")
	assert.NotNil(t, runCmd.Flags().Lookup("keep"))
}

func TestRunCmd_CleansGeneratesAndProcesses(t *testing.T) {
	env := setupCLITest(t)
	env.processor.report = sampleReport()

	out, err := execute("run", "--dir", "/bench/zips", "-a", "2", "-d", "3", "-w", "4")

	require.NoError(t, err)
	require.Len(t, env.cleaner.calls, 1)
	assert.Equal(t, []string{"/bench/zips", "/bench/levels.csv", "/bench/objects.csv"}, env.cleaner.calls[0])
	assert.Equal(t, "/bench/zips", env.producer.dir)
	assert.Equal(t, 2, env.producer.archives)
	assert.Equal(t, 3, env.producer.documents)
	require.Len(t, env.built, 1)
	assert.Equal(t, 4, env.built[0].Workers)
	assert.Equal(t, "/bench/zips", env.processor.dir)

	assert.Contains(t, out, "Generated 2 archives")
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "Timing")
	assert.Contains(t, out, "Generate:")
	assert.Contains(t, out, "Process:")
	assert.Contains(t, out, "Total:")
}

func TestRunCmd_Keep(t *testing.T) {
	env := setupCLITest(t)
	env.processor.report = sampleReport()

	_, err := execute("run", "--keep", "-a", "1", "-d", "1")

	require.NoError(t, err)
	assert.Empty(t, env.cleaner.calls)
	assert.Equal(t, 1, env.producer.calls)
}

func TestRunCmd_CleanFailureStops(t *testing.T) {
	env := setupCLITest(t)
	env.cleaner.err = errors.New("busy")

	_, err := execute("run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "clean failed")
	assert.Zero(t, env.producer.calls)
}

func TestRunCmd_GenerateFailureStops(t *testing.T) {
	env := setupCLITest(t)
	env.producer.err = errors.New("no space")

	_, err := execute("run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate failed")
	assert.Empty(t, env.built)
}
