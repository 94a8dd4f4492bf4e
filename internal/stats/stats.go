// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/incense/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RoundMetrics computes click accuracy and the share of upright sticks found.
func RoundMetrics(r model.RoundAggregate) (accuracy, found float64) {
	clicks := r.CorrectClicks + r.IncorrectClicks
	if clicks > 0 {
		accuracy = float64(r.CorrectClicks) / float64(clicks)
	}
	if r.CorrectSticks > 0 {
		found = float64(r.CorrectClicks) / float64(r.CorrectSticks)
	}
	return accuracy, found
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		den := math.Min(float64(i+1), float64(window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Summary holds the headline numbers of a set of rounds.
type Summary struct {
	Rounds      int
	AvgScore    float64
	BestScore   int
	AvgAccuracy float64
	AvgFound    float64
}

// Summarize computes headline numbers for rounds.
func Summarize(rounds []model.RoundAggregate) Summary {
	if len(rounds) == 0 {
		return Summary{}
	}
	s := Summary{Rounds: len(rounds), BestScore: rounds[0].FinalScore}
	var totalScore, totalAcc, totalFound float64
	for _, r := range rounds {
		acc, found := RoundMetrics(r)
		totalScore += float64(r.FinalScore)
		totalAcc += acc
		totalFound += found
		if r.FinalScore > s.BestScore {
			s.BestScore = r.FinalScore
		}
	}
	count := float64(len(rounds))
	s.AvgScore = totalScore / count
	s.AvgAccuracy = totalAcc / count
	s.AvgFound = totalFound / count
	return s
}

// RenderSummary prints a summary block for rounds.
func RenderSummary(w io.Writer, rounds []model.RoundAggregate) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	s := Summarize(rounds)
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", s.Rounds),
		fmt.Sprintf("Avg score: %.1f", s.AvgScore),
		fmt.Sprintf("Best score: %d", s.BestScore),
		fmt.Sprintf("Avg accuracy: %.1f%%", s.AvgAccuracy*100),
		fmt.Sprintf("Avg upright found: %.1f%%", s.AvgFound*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ScoreSeries returns final scores in round order.
func ScoreSeries(rounds []model.RoundAggregate) []float64 {
	out := make([]float64, len(rounds))
	for i, r := range rounds {
		out[i] = float64(r.FinalScore)
	}
	return out
}

const (
	colorReset  = "\x1b[0m"
	colorScore  = "\x1b[36m"
	colorAvg    = "\x1b[33m"
	colorHeader = "\x1b[1m"
)

func paint(s, code string, useColor bool) string {
	if !useColor || s == "" {
		return s
	}
	return code + s + colorReset
}

// RenderScoreCurve prints score and moving-average sparklines, keeping the
// most recent rounds that fit in width.
func RenderScoreCurve(w io.Writer, rounds []model.RoundAggregate, window, width int, useColor bool) error {
	if len(rounds) == 0 {
		return nil
	}
	const label = "Avg   "
	scores := ScoreSeries(rounds)
	avg := MovingAverage(scores, window)
	if span := width - len(label); span > 0 && len(scores) > span {
		scores = scores[len(scores)-span:]
		avg = avg[len(avg)-span:]
	}
	lines := []string{
		paint(fmt.Sprintf("Score Curve (window %d)", window), colorHeader, useColor),
		"Score " + paint(Sparkline(scores), colorScore, useColor),
		label + paint(Sparkline(avg), colorAvg, useColor),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// BandRows formats band aggregates as table rows ordered from upright to obvious.
func BandRows(aggs []model.BandAggregate) [][]string {
	sorted := make([]model.BandAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		oi, oj := bandRank(sorted[i].Band), bandRank(sorted[j].Band)
		if oi == oj {
			return sorted[i].Band < sorted[j].Band
		}
		return oi < oj
	})
	total := 0
	for _, agg := range sorted {
		total += agg.Clicks
	}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		share := 0.0
		if total > 0 {
			share = float64(agg.Clicks) / float64(total)
		}
		avgMs := 0.0
		if agg.Clicks > 0 {
			avgMs = float64(agg.ElapsedSumMs) / float64(agg.Clicks)
		}
		rows = append(rows, []string{
			agg.Band,
			fmt.Sprintf("%d", agg.Clicks),
			fmt.Sprintf("%.1f%%", share*100),
			fmt.Sprintf("%.1f", avgMs/1000),
		})
	}
	return rows
}

func bandRank(band string) int {
	if rank, ok := bandOrder[band]; ok {
		return rank
	}
	return len(bandOrder)
}

// RenderBandTable prints click counts per angle band under title.
func RenderBandTable(w io.Writer, title string, aggs []model.BandAggregate) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(aggs) == 0 {
		_, err := fmt.Fprint(w, "No clicks found.\n\n")
		return err
	}
	headers := []string{"Band", "Clicks", "Share", "Avg Time (s)"}
	lines := formatTable(headers, BandRows(aggs), map[int]bool{1: true, 2: true, 3: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RoundRows formats rounds as table rows, newest first.
func RoundRows(rounds []model.RoundAggregate) [][]string {
	rows := make([][]string, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		acc, _ := RoundMetrics(r)
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.FinalScore),
			fmt.Sprintf("%d/%d", r.CorrectClicks, r.CorrectSticks),
			fmt.Sprintf("%d", r.IncorrectClicks),
			fmt.Sprintf("%.1f%%", acc*100),
		})
	}
	return rows
}

// RenderRoundTable prints one line per round.
func RenderRoundTable(w io.Writer, rounds []model.RoundAggregate) error {
	if len(rounds) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Rounds"); err != nil {
		return err
	}
	headers := []string{"Ended", "Score", "Found", "Wrong", "Accuracy"}
	lines := formatTable(headers, RoundRows(rounds), map[int]bool{1: true, 2: true, 3: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ClickRows formats one round's clicks as table rows in click order.
func ClickRows(clicks []model.ClickRecord) [][]string {
	rows := make([][]string, 0, len(clicks))
	for _, c := range clicks {
		verdict := "wrong"
		if c.Correct {
			verdict = "upright"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.Seq+1),
			fmt.Sprintf("%.1f°", c.Angle),
			c.Band,
			verdict,
			fmt.Sprintf("%.1f", float64(c.ElapsedMs)/1000),
		})
	}
	return rows
}

// RenderClickTable prints the clicks of a single round.
func RenderClickTable(w io.Writer, clicks []model.ClickRecord) error {
	if len(clicks) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Last Round Clicks"); err != nil {
		return err
	}
	headers := []string{"#", "Angle", "Band", "Pick", "At (s)"}
	lines := formatTable(headers, ClickRows(clicks), map[int]bool{0: true, 1: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
