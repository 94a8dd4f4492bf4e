// Package tui provides the Bubble Tea play interface.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/incense/internal/generator"
	"github.com/verte-zerg/incense/internal/model"
	"github.com/verte-zerg/incense/internal/reveal"
	"github.com/verte-zerg/incense/internal/round"
	statsPkg "github.com/verte-zerg/incense/internal/stats"
	"github.com/verte-zerg/incense/internal/store"
)

const (
	tickInterval  = 100 * time.Millisecond
	popupDuration = time.Second
)

const (
	hintPlaying = "Find every stick planted perfectly upright at 90°."
	hintCorrect = "Exactly 90°. Power rises; keep looking."
	hintWrong   = "Not 90°. Power drops; find the upright sticks."
	hintEnded   = "This is the stick the customer planted for you."
)

var (
	stickStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	selectedStickStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cursorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle        = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
)

type tickMsg time.Time

// Model implements the Bubble Tea play UI. It is also the round's listener,
// so every round event lands on the Update goroutine.
type Model struct {
	round *round.Round
	store *store.Store
	keys  keyMap
	help  help.Model

	angleInput textinput.Model
	inputMode  bool
	inputError string

	width  int
	height int

	selectedID int
	lastTick   time.Time
	startedAt  time.Time

	score     int
	remaining time.Duration
	ended     bool
	result    model.Result
	hasResult bool

	popup        string
	popupCorrect bool
	popupLeft    time.Duration
	hint         string

	clicks          []model.ClickRecord
	correctClicks   int
	incorrectClicks int

	lastScore   int
	bestScore   int
	roundsTotal int
	hasLast     bool
}

// NewModel builds the round and the UI around it.
func NewModel(cfg model.Config, st *store.Store, opts ...round.Option) (*Model, error) {
	m := &Model{
		store: st,
		keys:  defaultKeyMap(),
		help:  help.New(),
		hint:  hintPlaying,
	}
	m.angleInput = textinput.New()
	m.angleInput.Prompt = "Received angle: "
	m.angleInput.Placeholder = "87.5"
	m.angleInput.CharLimit = 12

	opts = append(opts, round.WithListener(m))
	r, err := round.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	m.round = r
	m.resetRound()
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.advance(time.Time(msg))
		return m, tick()
	case tea.KeyMsg:
		if m.inputMode {
			return m.updateAngleInput(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.moveSelection(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveSelection(1)
		case key.Matches(msg, m.keys.Pick):
			m.pick()
		case key.Matches(msg, m.keys.Restart):
			m.round.Restart()
			m.resetRound()
		case key.Matches(msg, m.keys.Angle):
			return m.startAngleInput()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.ended {
		content = m.renderResult()
	} else {
		content = m.renderPlay()
	}
	if m.inputMode {
		input := m.angleInput.View()
		if m.inputError != "" {
			input += "\n" + incorrectStyle.Render(m.inputError)
		}
		content += "\n\n" + input
	}
	footer := m.renderFooter()
	helpView := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{content, footer, helpView}, "\n")
	}
	bottom := lipgloss.JoinVertical(lipgloss.Center, footer, helpView)
	bodyHeight := m.height - lipgloss.Height(bottom)
	if bodyHeight < 1 {
		return content
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, bottom)
}

// OnScoreChanged implements round.Listener.
func (m *Model) OnScoreChanged(score int) {
	m.score = score
}

// OnTimerChanged implements round.Listener.
func (m *Model) OnTimerChanged(remaining time.Duration) {
	m.remaining = remaining
}

// OnClickResolved implements round.Listener.
func (m *Model) OnClickResolved(res model.ClickResult) {
	correct := res.Kind == model.ClickCorrect
	m.clicks = append(m.clicks, model.ClickRecord{
		Seq:       len(m.clicks),
		StickID:   res.StickID,
		Angle:     res.Angle,
		Band:      generator.Band(res.Angle),
		Correct:   correct,
		ElapsedMs: m.round.Elapsed().Milliseconds(),
	})
	if correct {
		m.correctClicks++
		m.popup = fmt.Sprintf("%.1f° upright!", res.Angle)
		m.hint = hintCorrect
	} else {
		m.incorrectClicks++
		m.popup = fmt.Sprintf("%.1f° not upright", res.Angle)
		m.hint = hintWrong
	}
	m.popupCorrect = correct
	m.popupLeft = popupDuration
}

// OnRoundEnded implements round.Listener.
func (m *Model) OnRoundEnded() {
	m.ended = true
	m.popup = ""
	m.hint = hintEnded
	m.finishRound()
}

// OnResultReady implements round.Listener.
func (m *Model) OnResultReady(res model.Result) {
	m.result = res
	m.hasResult = true
}

func (m *Model) advance(now time.Time) {
	if m.lastTick.IsZero() {
		m.lastTick = now
		return
	}
	delta := now.Sub(m.lastTick)
	m.lastTick = now
	if m.popupLeft > 0 {
		m.popupLeft -= delta
		if m.popupLeft <= 0 {
			m.popup = ""
		}
	}
	m.round.Tick(delta)
}

func (m *Model) pick() {
	if m.ended {
		return
	}
	order := visibleOrder(m.round.Sticks())
	idx := indexOf(order, m.selectedID)
	if idx < 0 {
		return
	}
	if _, ok := m.round.Click(m.selectedID); !ok {
		return
	}
	order = append(order[:idx], order[idx+1:]...)
	if len(order) == 0 {
		m.selectedID = -1
		return
	}
	if idx >= len(order) {
		idx = len(order) - 1
	}
	m.selectedID = order[idx].ID
}

func (m *Model) moveSelection(delta int) {
	order := visibleOrder(m.round.Sticks())
	if len(order) == 0 {
		return
	}
	idx := indexOf(order, m.selectedID)
	if idx < 0 {
		m.selectedID = order[0].ID
		return
	}
	idx = (idx + delta + len(order)) % len(order)
	m.selectedID = order[idx].ID
}

func indexOf(order []model.Stick, id int) int {
	for i, s := range order {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) startAngleInput() (tea.Model, tea.Cmd) {
	m.inputMode = true
	m.inputError = ""
	m.angleInput.SetValue(strconv.FormatFloat(m.round.ReceivedAngle(), 'f', -1, 64))
	m.angleInput.CursorEnd()
	return m, m.angleInput.Focus()
}

func (m *Model) updateAngleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.inputMode = false
		m.angleInput.Blur()
		return m, nil
	case tea.KeyEnter:
		angle, err := parseAngle(m.angleInput.Value())
		if err != nil {
			m.inputError = err.Error()
			return m, nil
		}
		m.inputMode = false
		m.angleInput.Blur()
		m.round.SetReceivedAngle(angle)
		return m, nil
	}
	var cmd tea.Cmd
	m.angleInput, cmd = m.angleInput.Update(msg)
	return m, cmd
}

func parseAngle(value string) (float64, error) {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "°"))
	angle, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0, fmt.Errorf("angle must be a number")
	}
	return angle, nil
}

func (m *Model) resetRound() {
	m.ended = false
	m.hasResult = false
	m.popup = ""
	m.popupLeft = 0
	m.hint = hintPlaying
	m.clicks = nil
	m.correctClicks = 0
	m.incorrectClicks = 0
	m.startedAt = time.Now()
	m.selectedID = -1
	if order := visibleOrder(m.round.Sticks()); len(order) > 0 {
		m.selectedID = order[0].ID
	}
}

func (m *Model) renderStatus() string {
	seconds := int(math.Ceil(m.remaining.Seconds()))
	return statusStyle.Render(fmt.Sprintf("Time %d   Power %d", seconds, m.score))
}

func (m *Model) renderPlay() string {
	sticks := m.round.Sticks()
	cols := fieldCols(m.width, len(sticks))
	placed := placeSticks(visibleOrder(sticks), m.round.Config().Layout, cols)
	field := renderField(placed, cols, m.selectedID)

	popup := " "
	if m.popup != "" {
		style := incorrectStyle
		if m.popupCorrect {
			style = correctStyle
		}
		popup = style.Render(m.popup)
	}
	hint := hintStyle.Render(truncateLine(m.hint, cols))
	return lipgloss.JoinVertical(lipgloss.Center, m.renderStatus(), "", field, "", popup, hint)
}

func (m *Model) renderResult() string {
	res := m.result
	if !m.hasResult {
		res = m.round.Result()
	}
	glyphs := stickGlyphs(res.DisplayAngle)
	rows := make([]string, 0, stickRows)
	for _, g := range glyphs {
		rows = append(rows, stickStyle.Render(string(g)))
	}
	stick := strings.Join(rows, "\n")
	lines := []string{
		statusStyle.Render("Round over"),
		"",
		stick,
		"",
		fmt.Sprintf("Angle: %s (rotation %+.1f°)", reveal.Label(res), res.RotationDegrees),
		fmt.Sprintf("Found %d/%d upright · %d wrong · power %d",
			m.correctClicks, m.round.Config().CorrectSticks, m.incorrectClicks, m.score),
		"",
		hintStyle.Render(m.hint),
	}
	return resultStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	rounds, err := m.store.ListRounds(context.Background(), model.HistoryConfig{})
	if err != nil {
		logErrf("failed to load round history: %v\n", err)
		return
	}
	if len(rounds) == 0 {
		return
	}
	summary := statsPkg.Summarize(rounds)
	m.lastScore = rounds[len(rounds)-1].FinalScore
	m.bestScore = summary.BestScore
	m.roundsTotal = summary.Rounds
	m.hasLast = true
}

func (m *Model) renderFooter() string {
	if !m.hasLast {
		return footerStyle.Render("No rounds played yet")
	}
	footer := fmt.Sprintf("Last %d  Best %d  Rounds %d", m.lastScore, m.bestScore, m.roundsTotal)
	return footerStyle.Render(footer)
}

func (m *Model) roundRecord(endedAt time.Time) model.RoundRecord {
	cfg := m.round.Config()
	return model.RoundRecord{
		StartedAt:       m.startedAt,
		EndedAt:         endedAt,
		TotalSticks:     cfg.TotalSticks,
		CorrectSticks:   cfg.CorrectSticks,
		TimerMs:         cfg.Timer.Milliseconds(),
		InitialScore:    m.round.InitialScore(),
		FinalScore:      m.score,
		CorrectClicks:   m.correctClicks,
		IncorrectClicks: m.incorrectClicks,
		MissedCorrect:   m.round.MissedCorrect(),
		ReceivedAngle:   m.round.ReceivedAngle(),
	}
}

func (m *Model) finishRound() {
	rec := m.roundRecord(time.Now())
	m.lastScore = rec.FinalScore
	if !m.hasLast || rec.FinalScore > m.bestScore {
		m.bestScore = rec.FinalScore
	}
	m.roundsTotal++
	m.hasLast = true

	if m.store == nil {
		return
	}
	if _, err := m.store.InsertRound(context.Background(), rec, m.clicks); err != nil {
		logErrf("failed to save round: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
