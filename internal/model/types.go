// Package model defines shared data structures.
package model

import "time"

// Vec2 is a point in field units.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Layout describes where sticks are planted.
type Layout struct {
	Holder       Vec2
	Width        float64
	Height       float64
	HeightOffset float64
}

// Config defines round settings.
type Config struct {
	TotalSticks   int
	CorrectSticks int
	Timer         time.Duration
	InitialScore  int
	MinScore      int
	MaxScore      int
	Reward        int
	Penalty       int
	ReceivedAngle float64
	Layout        Layout
}

// Stick is one challenge item. Only Consumed changes after creation.
type Stick struct {
	ID       int
	Angle    float64
	Position Vec2
	Consumed bool
}

// Phase is the round lifecycle state.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ClickKind tells whether a resolved click hit an upright stick.
type ClickKind int

const (
	ClickCorrect ClickKind = iota
	ClickIncorrect
)

func (k ClickKind) String() string {
	if k == ClickCorrect {
		return "correct"
	}
	return "incorrect"
}

// ClickResult describes a resolved click.
type ClickResult struct {
	StickID int
	Kind    ClickKind
	Angle   float64
	Score   int
}

// Result is the end-of-round reveal of the received angle.
type Result struct {
	DisplayAngle    float64
	RotationDegrees float64
}

// HistoryConfig defines filters for round history.
type HistoryConfig struct {
	Since  *time.Time
	Last   int
	Window int
}

// RoundRecord captures a finished round.
type RoundRecord struct {
	StartedAt       time.Time
	EndedAt         time.Time
	TotalSticks     int
	CorrectSticks   int
	TimerMs         int64
	InitialScore    int
	FinalScore      int
	CorrectClicks   int
	IncorrectClicks int
	MissedCorrect   int
	ReceivedAngle   float64
}

// ClickRecord stores one resolved click of a round.
type ClickRecord struct {
	Seq       int
	StickID   int
	Angle     float64
	Band      string
	Correct   bool
	ElapsedMs int64
}

// RoundAggregate summarizes a round for reporting.
type RoundAggregate struct {
	RoundID         int64
	EndedAt         time.Time
	CorrectSticks   int
	FinalScore      int
	CorrectClicks   int
	IncorrectClicks int
	MissedCorrect   int
}

// BandAggregate aggregates clicks by angle band across rounds.
type BandAggregate struct {
	Band         string
	Clicks       int
	Correct      int
	ElapsedSumMs int64
}
