// Package main provides the CLI entrypoint for incense.
package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/incense/internal/config"
	"github.com/verte-zerg/incense/internal/generator"
	"github.com/verte-zerg/incense/internal/model"
	"github.com/verte-zerg/incense/internal/reveal"
	"github.com/verte-zerg/incense/internal/round"
	"github.com/verte-zerg/incense/internal/stats"
	"github.com/verte-zerg/incense/internal/statsui"
	"github.com/verte-zerg/incense/internal/store"
	"github.com/verte-zerg/incense/internal/tui"
)

const (
	defaultSticks        = 20
	defaultCorrect       = 5
	defaultTimer         = 30.0
	defaultInitial       = 60
	defaultMin           = 0
	defaultMax           = 100
	defaultReward        = 5
	defaultPenalty       = 5
	defaultAngle         = 87.5
	defaultHistoryWindow = 10
)

var (
	playSticks  int
	playCorrect int
	playTimer   float64
	playInitial int
	playMin     int
	playMax     int
	playReward  int
	playPenalty int
	playAngle   float64
	playSeed    int64

	historySince  string
	historyLast   int
	historyWindow int
	historyPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "incense",
		Short:         "Spot the upright incense sticks before time runs out",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playSticks, "sticks", defaultSticks, "sticks per round")
	rootCmd.Flags().IntVar(&playCorrect, "correct", defaultCorrect, "upright sticks per round")
	rootCmd.Flags().Float64Var(&playTimer, "timer", defaultTimer, "round length in seconds")
	rootCmd.Flags().IntVar(&playInitial, "initial", defaultInitial, "starting power")
	rootCmd.Flags().IntVar(&playMin, "min", defaultMin, "lowest power")
	rootCmd.Flags().IntVar(&playMax, "max", defaultMax, "highest power")
	rootCmd.Flags().IntVar(&playReward, "reward", defaultReward, "power gained per upright pick")
	rootCmd.Flags().IntVar(&playPenalty, "penalty", defaultPenalty, "power lost per tilted pick")
	rootCmd.Flags().Float64Var(&playAngle, "angle", defaultAngle, "received angle revealed at round end")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed (0: time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newRevealCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "sticks", &playSticks, fileCfg.Round.Sticks)
	applyIntConfig(cmd, "correct", &playCorrect, fileCfg.Round.Correct)
	applyFloatConfig(cmd, "timer", &playTimer, fileCfg.Round.Timer)
	applyIntConfig(cmd, "initial", &playInitial, fileCfg.Round.Initial)
	applyIntConfig(cmd, "min", &playMin, fileCfg.Round.Min)
	applyIntConfig(cmd, "max", &playMax, fileCfg.Round.Max)
	applyIntConfig(cmd, "reward", &playReward, fileCfg.Round.Reward)
	applyIntConfig(cmd, "penalty", &playPenalty, fileCfg.Round.Penalty)
	applyFloatConfig(cmd, "angle", &playAngle, fileCfg.Round.Angle)

	if err := validateTimer(playTimer); err != nil {
		return err
	}
	cfg := model.Config{
		TotalSticks:   playSticks,
		CorrectSticks: playCorrect,
		Timer:         time.Duration(playTimer * float64(time.Second)),
		InitialScore:  playInitial,
		MinScore:      playMin,
		MaxScore:      playMax,
		Reward:        playReward,
		Penalty:       playPenalty,
		ReceivedAngle: playAngle,
		Layout:        fileCfg.Layout.ApplyLayout(config.DefaultLayout()),
	}
	if err := round.Validate(cfg); err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, st, seedOptions(playSeed)...)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func seedOptions(seed int64) []round.Option {
	if seed == 0 {
		return nil
	}
	return []round.Option{
		round.WithAngles(generator.NewAnglesWithRand(rand.New(rand.NewSource(seed)))),
		round.WithPositions(generator.NewPositionsWithRand(rand.New(rand.NewSource(seed + 1)))),
	}
}

func validateTimer(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fmt.Errorf("--timer must be > 0")
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show played rounds",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text summary instead of the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(historySince, historyLast, historyWindow)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		out := cmd.OutOrStdout()
		return report.Render(out, cfg.Window, stats.TerminalWidth(), stats.ShouldUseColor(out))
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func historyConfig(since string, last, window int) (model.HistoryConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return model.HistoryConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return model.HistoryConfig{Since: sinceTime, Last: last, Window: window}, nil
}

func newRevealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <angle>",
		Short: "Show how a received angle is revealed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			angle, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(args[0]), "°"), 64)
			if err != nil || math.IsNaN(angle) || math.IsInf(angle, 0) {
				return fmt.Errorf("invalid angle %q", args[0])
			}
			return writeReveal(cmd.OutOrStdout(), angle)
		},
	}
}

func writeReveal(w io.Writer, angle float64) error {
	res := reveal.Reveal(angle)
	if _, err := fmt.Fprintf(w, "Angle: %s\nRotation: %+.1f°\n", reveal.Label(res), res.RotationDegrees); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	layout := config.DefaultLayout()
	return fmt.Sprintf(`# incense configuration
# Uncomment a value to enable it. CLI flags override config values.

[round]
# sticks = %d             # Sticks per round
# correct = %d             # Upright sticks per round
# timer = %.1f            # Round length in seconds
# initial = %d            # Starting power
# min = %d                 # Lowest power
# max = %d               # Highest power
# reward = %d              # Power gained per upright pick
# penalty = %d             # Power lost per tilted pick
# angle = %.1f            # Received angle revealed at round end

[layout]
# holder-x = %.1f          # Holder position
# holder-y = %.1f
# width = %.1f           # Horizontal spread
# height = %.1f           # Vertical jitter band
# height-offset = %.1f   # Distance from holder to the row centre
`,
		defaultSticks,
		defaultCorrect,
		defaultTimer,
		defaultInitial,
		defaultMin,
		defaultMax,
		defaultReward,
		defaultPenalty,
		defaultAngle,
		layout.Holder.X,
		layout.Holder.Y,
		layout.Width,
		layout.Height,
		layout.HeightOffset,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
