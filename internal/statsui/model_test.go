package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/incense/internal/model"
	"github.com/verte-zerg/incense/internal/store"
)

func openSeededStore(t *testing.T, rounds int) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "incense.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < rounds; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		rec := model.RoundRecord{
			StartedAt:       start,
			EndedAt:         start.Add(30 * time.Second),
			TotalSticks:     20,
			CorrectSticks:   5,
			TimerMs:         30000,
			InitialScore:    60,
			FinalScore:      60 + i*5,
			CorrectClicks:   i + 1,
			IncorrectClicks: 1,
			MissedCorrect:   4 - i,
			ReceivedAngle:   87.5,
		}
		clicks := []model.ClickRecord{
			{Seq: 0, StickID: 1, Angle: 90, Band: "upright", Correct: true, ElapsedMs: 1000},
			{Seq: 1, StickID: 2, Angle: 110, Band: "obvious", ElapsedMs: 3000},
		}
		if _, err := st.InsertRound(context.Background(), rec, clicks); err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}
	return st
}

func TestWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{4, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextWindow(tc.in); got != tc.next {
			t.Fatalf("nextWindow(%d): expected %d, got %d", tc.in, tc.next, got)
		}
		if got := prevWindow(tc.in); got != tc.prev {
			t.Fatalf("prevWindow(%d): expected %d, got %d", tc.in, tc.prev, got)
		}
	}
}

func TestApplyFilter(t *testing.T) {
	m := NewModel(openSeededStore(t, 0), model.HistoryConfig{Window: 10})
	m.filterInputs[0].SetValue("2026-03-02")
	m.filterInputs[1].SetValue("3")
	m.filterInputs[2].SetValue("4")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if m.cfg.Since == nil || m.cfg.Since.Day() != 2 || m.cfg.Last != 3 || m.cfg.Window != 4 {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}

	m.filterInputs[0].SetValue("03/02/2026")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected since error")
	}
	m.filterInputs[0].SetValue("")
	m.filterInputs[1].SetValue("-1")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected last error")
	}
	m.filterInputs[1].SetValue("")
	m.filterInputs[2].SetValue("0")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected window error")
	}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(openSeededStore(t, 3), model.HistoryConfig{Window: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if len(m.report.Rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(m.report.Rounds))
	}
	view := m.View()
	for _, want := range []string{"Overview", "Best Score", "70", "window=2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTabsAndWindowKeys(t *testing.T) {
	m := NewModel(openSeededStore(t, 3), model.HistoryConfig{Window: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabBands {
		t.Fatalf("expected bands tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "obvious") {
		t.Fatalf("expected band table in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabRounds {
		t.Fatalf("expected tabs to wrap to rounds, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.cfg.Window != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.Window)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.cfg.Window != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.Window)
	}
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(openSeededStore(t, 0), model.HistoryConfig{Window: 5})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "No rounds found.") {
		t.Fatalf("expected empty message")
	}
}

func TestFilterModeEscCancels(t *testing.T) {
	m := NewModel(openSeededStore(t, 1), model.HistoryConfig{Window: 5})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode || m.cfg.Window != 5 {
		t.Fatalf("expected cancelled filter, got %+v", m.cfg)
	}
}

func TestBandsToggleAllRounds(t *testing.T) {
	m := NewModel(openSeededStore(t, 3), model.HistoryConfig{Window: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "Last 1 rounds") {
		t.Fatalf("expected windowed band scope:\n%s", m.View())
	}
	if got := m.bandAggs(); len(got) != 2 || got[0].Clicks != 1 {
		t.Fatalf("unexpected windowed aggregates: %+v", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if !m.bandsAll || !strings.Contains(m.View(), "All rounds") {
		t.Fatalf("expected all-rounds band scope:\n%s", m.View())
	}
	if got := m.bandAggs(); len(got) != 2 || got[0].Clicks != 3 {
		t.Fatalf("unexpected all-rounds aggregates: %+v", got)
	}
}

func TestRoundsTabShowsLastClicks(t *testing.T) {
	m := NewModel(openSeededStore(t, 2), model.HistoryConfig{Window: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	view := m.View()
	for _, want := range []string{"Last Round Clicks", "110.0°", "obvious", "Rounds"} {
		if !strings.Contains(view, want) {
			t.Fatalf("rounds tab missing %q:\n%s", want, view)
		}
	}
}
