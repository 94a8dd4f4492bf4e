// Package generator builds stick angles and placements for a round.
package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/incense/internal/model"
)

// Upright is the only angle that counts as correct.
const Upright = 90.0

// Band names used when classifying angles.
const (
	BandUpright  = "upright"
	BandNearMiss = "near-miss"
	BandSlight   = "slight"
	BandObvious  = "obvious"
)

type band struct {
	weight  float64 // cumulative
	lo, hi  float64
	exclude float64
}

// The near-miss band keeps its narrow source range even though part of it
// falls inside the exclusion zone; the resampling loop handles that.
var bands = []band{
	{weight: 0.4, lo: 80, hi: 105, exclude: 2},
	{weight: 0.7, lo: 87.5, hi: 92.5, exclude: 2},
	{weight: 1.0, lo: 65, hi: 125, exclude: 5},
}

// Angles produces shuffled angle sets.
type Angles struct {
	rnd *rand.Rand
}

// NewAngles returns an angle generator seeded with the current time.
func NewAngles() *Angles {
	return NewAnglesWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewAnglesWithRand returns an angle generator drawing from rnd.
func NewAnglesWithRand(rnd *rand.Rand) *Angles {
	return &Angles{rnd: rnd}
}

// Generate returns total angles of which exactly correct are 90.
func (g *Angles) Generate(total, correct int) []float64 {
	if total <= 0 {
		return nil
	}
	if correct > total {
		correct = total
	}
	if correct < 0 {
		correct = 0
	}
	angles := make([]float64, 0, total)
	for i := 0; i < correct; i++ {
		angles = append(angles, Upright)
	}
	for i := correct; i < total; i++ {
		angles = append(angles, g.tilted())
	}
	g.rnd.Shuffle(len(angles), func(i, j int) {
		angles[i], angles[j] = angles[j], angles[i]
	})
	return angles
}

func (g *Angles) tilted() float64 {
	r := g.rnd.Float64()
	b := bands[len(bands)-1]
	for _, candidate := range bands {
		if r < candidate.weight {
			b = candidate
			break
		}
	}
	angle := uniform(g.rnd, b.lo, b.hi)
	for math.Abs(angle-Upright) < b.exclude {
		angle = uniform(g.rnd, b.lo, b.hi)
	}
	return angle
}

// Band classifies an angle by its distance from upright.
func Band(angle float64) string {
	d := math.Abs(angle - Upright)
	switch {
	case d == 0:
		return BandUpright
	case d <= 2.5:
		return BandNearMiss
	case d <= 15:
		return BandSlight
	default:
		return BandObvious
	}
}

// Positions spreads sticks horizontally with jitter.
type Positions struct {
	rnd *rand.Rand
}

const horizontalJitter = 40.0

// NewPositions returns a position generator seeded with the current time.
func NewPositions() *Positions {
	return NewPositionsWithRand(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))
}

// NewPositionsWithRand returns a position generator drawing from rnd.
func NewPositionsWithRand(rnd *rand.Rand) *Positions {
	return &Positions{rnd: rnd}
}

// Generate places total sticks around the layout's holder.
func (g *Positions) Generate(total int, layout model.Layout) []model.Vec2 {
	if total <= 0 {
		return nil
	}
	center := layout.Holder.Add(model.Vec2{Y: layout.HeightOffset})
	step := layout.Width * 2 / float64(total)
	half := layout.Height / 2
	out := make([]model.Vec2, 0, total)
	for i := 0; i < total; i++ {
		baseX := (float64(i) - float64(total-1)*0.5) * step
		x := baseX + uniform(g.rnd, -horizontalJitter, horizontalJitter)
		y := uniform(g.rnd, -half, half)
		out = append(out, center.Add(model.Vec2{X: x, Y: y}))
	}
	return out
}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}
