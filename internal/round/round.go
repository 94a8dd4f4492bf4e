// Package round implements the round lifecycle: timer, score and click
// resolution over a generated stick pool.
package round

import (
	"fmt"
	"time"

	"github.com/verte-zerg/incense/internal/generator"
	"github.com/verte-zerg/incense/internal/model"
	"github.com/verte-zerg/incense/internal/pool"
	"github.com/verte-zerg/incense/internal/reveal"
)

// ConfigurationError reports a round config that cannot produce a round.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid round config: %s %s", e.Field, e.Reason)
}

// State is the mutable part of a round.
type State struct {
	Remaining time.Duration
	Score     int
	Phase     model.Phase
}

// Round drives one play-through. It is not safe for concurrent use; the host
// must confine all calls to a single goroutine.
type Round struct {
	cfg       model.Config
	angles    *generator.Angles
	positions *generator.Positions
	listener  Listener

	pool     *pool.Pool
	state    State
	elapsed  time.Duration
	missed   int
	received float64
}

// Option customizes a Round.
type Option func(*Round)

// WithListener routes output events to l.
func WithListener(l Listener) Option {
	return func(r *Round) {
		if l != nil {
			r.listener = l
		}
	}
}

// WithAngles injects the angle generator.
func WithAngles(g *generator.Angles) Option {
	return func(r *Round) {
		if g != nil {
			r.angles = g
		}
	}
}

// WithPositions injects the position generator.
func WithPositions(g *generator.Positions) Option {
	return func(r *Round) {
		if g != nil {
			r.positions = g
		}
	}
}

// New validates cfg and starts the first round.
func New(cfg model.Config, opts ...Option) (*Round, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	r := &Round{
		cfg:      cfg,
		listener: NopListener{},
		pool:     pool.New(),
		received: cfg.ReceivedAngle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.angles == nil {
		r.angles = generator.NewAngles()
	}
	if r.positions == nil {
		r.positions = generator.NewPositions()
	}
	r.start()
	return r, nil
}

// Validate checks the settings a round cannot be built without.
func Validate(cfg model.Config) error {
	if cfg.TotalSticks < 0 {
		return &ConfigurationError{Field: "TotalSticks", Reason: "must be >= 0"}
	}
	if cfg.CorrectSticks < 0 {
		return &ConfigurationError{Field: "CorrectSticks", Reason: "must be >= 0"}
	}
	if cfg.CorrectSticks > cfg.TotalSticks {
		return &ConfigurationError{
			Field:  "CorrectSticks",
			Reason: fmt.Sprintf("(%d) exceeds TotalSticks (%d)", cfg.CorrectSticks, cfg.TotalSticks),
		}
	}
	if cfg.MinScore > cfg.MaxScore {
		return &ConfigurationError{
			Field:  "MinScore",
			Reason: fmt.Sprintf("(%d) exceeds MaxScore (%d)", cfg.MinScore, cfg.MaxScore),
		}
	}
	return nil
}

func (r *Round) start() {
	angles := r.angles.Generate(r.cfg.TotalSticks, r.cfg.CorrectSticks)
	positions := r.positions.Generate(r.cfg.TotalSticks, r.cfg.Layout)
	r.pool.Build(angles, positions)
	r.state = State{
		Remaining: r.cfg.Timer,
		Score:     r.InitialScore(),
		Phase:     model.PhaseActive,
	}
	r.elapsed = 0
	r.missed = 0
	r.listener.OnScoreChanged(r.state.Score)
	r.listener.OnTimerChanged(r.state.Remaining)
}

// Tick advances the countdown. Non-positive deltas and ticks after the round
// ended are ignored.
func (r *Round) Tick(delta time.Duration) {
	if delta <= 0 || r.state.Phase != model.PhaseActive {
		return
	}
	r.state.Remaining -= delta
	r.elapsed += delta
	if r.state.Remaining <= 0 {
		r.state.Remaining = 0
		r.listener.OnTimerChanged(0)
		r.end()
		return
	}
	r.listener.OnTimerChanged(r.state.Remaining)
}

func (r *Round) end() {
	r.state.Phase = model.PhaseEnded
	r.missed = r.RemainingCorrect()
	r.pool.Clear()
	r.listener.OnRoundEnded()
	r.listener.OnResultReady(reveal.Reveal(r.received))
}

// Click resolves a click on stick id. It reports false when the click had no
// effect: the round ended, the id is unknown or the stick was already taken.
func (r *Round) Click(id int) (model.ClickResult, bool) {
	if r.state.Phase != model.PhaseActive {
		return model.ClickResult{}, false
	}
	angle, found, already := r.pool.Resolve(id)
	if !found || already {
		return model.ClickResult{}, false
	}
	res := model.ClickResult{StickID: id, Angle: angle}
	if angle == generator.Upright {
		res.Kind = model.ClickCorrect
		r.state.Score = r.clamp(r.state.Score + r.cfg.Reward)
	} else {
		res.Kind = model.ClickIncorrect
		r.state.Score = r.clamp(r.state.Score - r.cfg.Penalty)
	}
	res.Score = r.state.Score
	r.listener.OnClickResolved(res)
	r.listener.OnScoreChanged(r.state.Score)
	return res, true
}

// Restart discards the current round and generates a fresh one.
func (r *Round) Restart() {
	r.pool.Clear()
	r.start()
}

// SetReceivedAngle updates the angle shown at round end. If the round has
// already ended the result is revealed again.
func (r *Round) SetReceivedAngle(angle float64) {
	r.received = angle
	if r.state.Phase == model.PhaseEnded {
		r.listener.OnResultReady(reveal.Reveal(angle))
	}
}

// ReceivedAngle returns the angle that will be revealed.
func (r *Round) ReceivedAngle() float64 {
	return r.received
}

// Result reveals the current received angle.
func (r *Round) Result() model.Result {
	return reveal.Reveal(r.received)
}

// State returns a copy of the round state.
func (r *Round) State() State {
	return r.state
}

// Elapsed returns the time played in the current round.
func (r *Round) Elapsed() time.Duration {
	return r.elapsed
}

// Config returns the round settings.
func (r *Round) Config() model.Config {
	return r.cfg
}

// Sticks returns a copy of the pool contents.
func (r *Round) Sticks() []model.Stick {
	return r.pool.Sticks()
}

// RemainingCorrect counts upright sticks not yet found.
func (r *Round) RemainingCorrect() int {
	return r.pool.RemainingMatching(generator.Upright)
}

// MissedCorrect counts upright sticks never found. Once the round has ended
// it reports the count taken just before the pool was cleared.
func (r *Round) MissedCorrect() int {
	if r.state.Phase == model.PhaseEnded {
		return r.missed
	}
	return r.RemainingCorrect()
}

// InitialScore returns the score a round starts from after clamping.
func (r *Round) InitialScore() int {
	return r.clamp(r.cfg.InitialScore)
}

func (r *Round) clamp(v int) int {
	if v < r.cfg.MinScore {
		return r.cfg.MinScore
	}
	if v > r.cfg.MaxScore {
		return r.cfg.MaxScore
	}
	return v
}
