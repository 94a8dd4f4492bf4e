package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/incense/internal/model"
	"github.com/verte-zerg/incense/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Rounds         []model.RoundAggregate
	WindowRoundIDs []int64
	BandAggsAll    []model.BandAggregate
	BandAggsWindow []model.BandAggregate
	LastClicks     []model.ClickRecord
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}

	allIDs := roundIDs(rounds)
	windowIDs := lastRoundIDs(rounds, cfg.Window)
	bandAggsAll, err := st.ListBandAggregatesForRounds(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	bandAggsWindow, err := st.ListBandAggregatesForRounds(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	var lastClicks []model.ClickRecord
	if len(rounds) > 0 {
		lastClicks, err = st.ListClicks(ctx, rounds[len(rounds)-1].RoundID)
		if err != nil {
			return Report{}, err
		}
	}

	return Report{
		Rounds:         rounds,
		WindowRoundIDs: windowIDs,
		BandAggsAll:    bandAggsAll,
		BandAggsWindow: bandAggsWindow,
		LastClicks:     lastClicks,
	}, nil
}

// Render writes the plain-text form of the report.
func (r Report) Render(w io.Writer, window, width int, useColor bool) error {
	if err := RenderSummary(w, r.Rounds); err != nil {
		return err
	}
	if len(r.Rounds) == 0 {
		return nil
	}
	if err := RenderScoreCurve(w, r.Rounds, window, width, useColor); err != nil {
		return err
	}
	if err := RenderBandTable(w, fmt.Sprintf("Clicks by Band (last %d rounds)", len(r.WindowRoundIDs)), r.BandAggsWindow); err != nil {
		return err
	}
	if err := RenderBandTable(w, "Clicks by Band (all rounds)", r.BandAggsAll); err != nil {
		return err
	}
	if err := RenderClickTable(w, r.LastClicks); err != nil {
		return err
	}
	return RenderRoundTable(w, r.Rounds)
}

func roundIDs(rounds []model.RoundAggregate) []int64 {
	ids := make([]int64, len(rounds))
	for i, r := range rounds {
		ids[i] = r.RoundID
	}
	return ids
}

func lastRoundIDs(rounds []model.RoundAggregate, window int) []int64 {
	if window <= 0 || len(rounds) <= window {
		return roundIDs(rounds)
	}
	return roundIDs(rounds[len(rounds)-window:])
}
