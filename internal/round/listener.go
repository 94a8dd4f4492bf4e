package round

import (
	"time"

	"github.com/verte-zerg/incense/internal/model"
)

// Listener receives round output events. Calls happen synchronously on the
// goroutine that drives the round.
type Listener interface {
	OnScoreChanged(score int)
	OnTimerChanged(remaining time.Duration)
	OnClickResolved(res model.ClickResult)
	OnRoundEnded()
	OnResultReady(res model.Result)
}

// NopListener ignores all events.
type NopListener struct{}

func (NopListener) OnScoreChanged(int)                {}
func (NopListener) OnTimerChanged(time.Duration)      {}
func (NopListener) OnClickResolved(model.ClickResult) {}
func (NopListener) OnRoundEnded()                     {}
func (NopListener) OnResultReady(model.Result)        {}

// Listeners fans events out in order.
type Listeners []Listener

func (ls Listeners) OnScoreChanged(score int) {
	for _, l := range ls {
		l.OnScoreChanged(score)
	}
}

func (ls Listeners) OnTimerChanged(remaining time.Duration) {
	for _, l := range ls {
		l.OnTimerChanged(remaining)
	}
}

func (ls Listeners) OnClickResolved(res model.ClickResult) {
	for _, l := range ls {
		l.OnClickResolved(res)
	}
}

func (ls Listeners) OnRoundEnded() {
	for _, l := range ls {
		l.OnRoundEnded()
	}
}

func (ls Listeners) OnResultReady(res model.Result) {
	for _, l := range ls {
		l.OnResultReady(res)
	}
}
