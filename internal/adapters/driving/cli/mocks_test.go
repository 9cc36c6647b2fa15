package cli

import (
	"context"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driving"
)

// mockReconciler implements driving.Reconciler.
type mockReconciler struct {
	report   *domain.Report
	err      error
	messages []string
}

var _ driving.Reconciler = (*mockReconciler)(nil)

func (m *mockReconciler) Reconcile(_ context.Context, progress domain.ProgressFunc) (*domain.Report, error) {
	for _, msg := range m.messages {
		progress.Emit("%s", msg)
	}
	if m.report != nil {
		progress.Emit("%s", m.report.Summary())
	}
	return m.report, m.err
}

// mockOrganizer implements driving.Organizer.
type mockOrganizer struct {
	report   *domain.Report
	err      error
	messages []string
}

var _ driving.Organizer = (*mockOrganizer)(nil)

func (m *mockOrganizer) Organize(_ context.Context, progress domain.ProgressFunc) (*domain.Report, error) {
	for _, msg := range m.messages {
		progress.Emit("%s", msg)
	}
	if m.report != nil {
		progress.Emit("%s", m.report.MoveSummary())
	}
	return m.report, m.err
}

// mockSearchService implements driving.SearchService and records which
// entry point was used.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	lastQuery   string
	lastKeyword string
	lastLimit   int
	lastOpts    domain.SearchOptions
	recentCalls int
}

var _ driving.SearchService = (*mockSearchService)(nil)

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = opts.Limit
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) SearchByName(_ context.Context, keyword string, limit int) ([]domain.SearchResult, error) {
	m.lastKeyword = keyword
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) Recent(_ context.Context, limit int) ([]domain.SearchResult, error) {
	m.recentCalls++
	m.lastLimit = limit
	return m.results, m.err
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error

	lastMinScore      float64
	lastFallbackBelow float64
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings != nil {
		return m.settings, nil
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = settings
	return m.err
}

func (m *mockSettingsService) SetSearchThresholds(minScore, fallbackBelow float64) error {
	m.lastMinScore = minScore
	m.lastFallbackBelow = fallbackBelow
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
