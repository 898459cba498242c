package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	getErr   error
	setErr   error
	saved    *domain.Settings
	sets     [][2]string
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultSettings()
	s.ArchiveDir = "/work/zips"
	return &mockSettingsService{settings: s}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s := *settings
	m.saved = &s
	m.settings = s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.sets = append(m.sets, [2]string{key, value})
	return m.setErr
}

func (m *mockSettingsService) Keys() []string {
	return []string{"archive.dir", "processor.workers"}
}

// mockProducer implements driving.ArchiveProducer for testing.
type mockProducer struct {
	dir       string
	archives  int
	documents int
	calls     int
	err       error
}

func (m *mockProducer) Produce(_ context.Context, dir string, archives, documents int) ([]string, error) {
	m.calls++
	m.dir, m.archives, m.documents = dir, archives, documents
	if m.err != nil {
		return nil, m.err
	}
	paths := make([]string, archives)
	for i := range paths {
		paths[i] = dir + "/a.zip"
	}
	return paths, nil
}

// mockProcessor implements driving.ArchiveProcessor for testing.
type mockProcessor struct {
	mu      sync.Mutex
	report  *domain.RunReport
	err     error
	dir     string
	status  driving.ProcessStatus
	release chan struct{}
}

func (m *mockProcessor) Process(_ context.Context, dir string) (*domain.RunReport, error) {
	m.mu.Lock()
	m.dir = dir
	m.mu.Unlock()
	if m.release != nil {
		<-m.release
	}
	return m.report, m.err
}

func (m *mockProcessor) Status() driving.ProcessStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// mockRunHistory implements driving.RunHistory for testing.
type mockRunHistory struct {
	runs  []domain.RunReport
	err   error
	limit int
}

func (m *mockRunHistory) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockRunHistory) Get(_ context.Context, id string) (*domain.RunReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.runs {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockCleaner implements driving.Cleaner for testing.
type mockCleaner struct {
	calls [][]string
	err   error
}

func (m *mockCleaner) Clean(dir string, outputs ...string) error {
	m.calls = append(m.calls, append([]string{dir}, outputs...))
	return m.err
}

// testEnv holds the mocks installed for one test.
type testEnv struct {
	settings  *mockSettingsService
	producer  *mockProducer
	processor *mockProcessor
	runs      *mockRunHistory
	cleaner   *mockCleaner
	// built records the settings each processor was built with.
	built []domain.Settings
}

// setupCLITest installs mocks and restores the previous services afterwards.
func setupCLITest(t *testing.T) *testEnv {
	t.Helper()

	oldSettings, oldProducer, oldFactory := settingsService, archiveProducer, newProcessor
	oldRuns, oldCleaner, oldBootstrap := runHistory, cleaner, bootstrap
	oldTerminal := isTerminal

	env := &testEnv{
		settings:  newMockSettingsService(),
		producer:  &mockProducer{},
		processor: &mockProcessor{},
		runs:      &mockRunHistory{},
		cleaner:   &mockCleaner{},
	}
	settingsService = env.settings
	archiveProducer = env.producer
	newProcessor = func(s domain.Settings) (driving.ArchiveProcessor, error) {
		env.built = append(env.built, s)
		return env.processor, nil
	}
	runHistory = env.runs
	cleaner = env.cleaner
	bootstrap = nil
	isTerminal = func() bool { return false }

	resetFlags(rootCmd)

	t.Cleanup(func() {
		settingsService, archiveProducer, newProcessor = oldSettings, oldProducer, oldFactory
		runHistory, cleaner, bootstrap = oldRuns, oldCleaner, oldBootstrap
		isTerminal = oldTerminal
		resetFlags(rootCmd)
	})
	return env
}

// resetFlags restores every flag of cmd and its children to its default.
// Cobra keeps flag state between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs the root command with args and returns combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func sampleReport() *domain.RunReport {
	return &domain.RunReport{
		ID:          "run-1",
		Dir:         "/work/zips",
		LevelsPath:  "/work/levels.csv",
		ObjectsPath: "/work/objects.csv",
		Archives:    2,
		Members:     6,
		LevelRows:   6,
		ObjectRows:  12,
		StartedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:  time.Date(2026, 3, 1, 12, 0, 2, 0, time.UTC),
	}
}
