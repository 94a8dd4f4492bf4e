package generator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/verte-zerg/incense/internal/model"
)

func TestGenerateExactUprightCount(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g := NewAnglesWithRand(rand.New(rand.NewSource(seed)))
		angles := g.Generate(20, 5)
		if len(angles) != 20 {
			t.Fatalf("seed %d: expected 20 angles, got %d", seed, len(angles))
		}
		upright := 0
		for _, a := range angles {
			if a == Upright {
				upright++
			}
		}
		if upright != 5 {
			t.Fatalf("seed %d: expected 5 upright angles, got %d", seed, upright)
		}
	}
}

func TestGenerateTiltedOutsideExclusion(t *testing.T) {
	g := NewAnglesWithRand(rand.New(rand.NewSource(7)))
	for round := 0; round < 200; round++ {
		for _, a := range g.Generate(30, 3) {
			if a == Upright {
				continue
			}
			d := math.Abs(a - Upright)
			if d < 2 {
				t.Fatalf("tilted angle %.4f inside (88,92)", a)
			}
			if a < 65 || a > 125 {
				t.Fatalf("tilted angle %.4f outside sampling ranges", a)
			}
		}
	}
}

func TestGenerateBandMix(t *testing.T) {
	const rounds = 20000
	g := NewAnglesWithRand(rand.New(rand.NewSource(11)))
	var tilted, nearMiss, outsideWide int
	for r := 0; r < rounds; r++ {
		for _, a := range g.Generate(20, 5) {
			if a == Upright {
				continue
			}
			tilted++
			if d := math.Abs(a - Upright); d <= 2.5 {
				nearMiss++
			}
			if a < 80 || a >= 105 {
				outsideWide++
			}
		}
	}
	// Near-miss: all of the narrow band plus 1/21 of the wide band.
	// Outside [80,105): 35/50 of the obvious band.
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"near-miss", float64(nearMiss) / float64(tilted), 0.3 + 0.4/21},
		{"outside [80,105)", float64(outsideWide) / float64(tilted), 0.3 * 35 / 50},
	}
	for _, tc := range cases {
		if math.Abs(tc.got-tc.want) > 0.01 {
			t.Fatalf("%s share: expected about %.4f, got %.4f", tc.name, tc.want, tc.got)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewAnglesWithRand(rand.New(rand.NewSource(42))).Generate(20, 5)
	b := NewAnglesWithRand(rand.New(rand.NewSource(42))).Generate(20, 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical sequences at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateShuffleIsFair(t *testing.T) {
	const total, correct, rounds = 10, 2, 20000
	g := NewAnglesWithRand(rand.New(rand.NewSource(99)))
	hits := make([]int, total)
	for r := 0; r < rounds; r++ {
		for i, a := range g.Generate(total, correct) {
			if a == Upright {
				hits[i]++
			}
		}
	}
	expected := float64(rounds) * correct / total
	for i, h := range hits {
		if math.Abs(float64(h)-expected) > expected*0.08 {
			t.Fatalf("slot %d: upright %d times, expected about %.0f", i, h, expected)
		}
	}
}

func TestGenerateEdgeCounts(t *testing.T) {
	g := NewAnglesWithRand(rand.New(rand.NewSource(1)))
	if got := g.Generate(0, 0); len(got) != 0 {
		t.Fatalf("expected no angles, got %d", len(got))
	}
	all := g.Generate(4, 4)
	for _, a := range all {
		if a != Upright {
			t.Fatalf("expected only upright angles, got %v", a)
		}
	}
	none := g.Generate(4, 0)
	for _, a := range none {
		if a == Upright {
			t.Fatalf("expected no upright angles, got %v", none)
		}
	}
}

func TestBand(t *testing.T) {
	cases := map[float64]string{
		90:    BandUpright,
		87.6:  BandNearMiss,
		92.4:  BandNearMiss,
		97:    BandSlight,
		80:    BandSlight,
		66:    BandObvious,
		124.9: BandObvious,
	}
	for angle, want := range cases {
		if got := Band(angle); got != want {
			t.Fatalf("Band(%v): expected %s, got %s", angle, want, got)
		}
	}
}

func TestPositionsSpread(t *testing.T) {
	layout := model.Layout{Holder: model.Vec2{X: 0, Y: -100}, Width: 200, Height: 50, HeightOffset: 180}
	g := NewPositionsWithRand(rand.New(rand.NewSource(3)))
	pos := g.Generate(20, layout)
	if len(pos) != 20 {
		t.Fatalf("expected 20 positions, got %d", len(pos))
	}
	step := layout.Width * 2 / 20
	for i, p := range pos {
		baseX := (float64(i) - 9.5) * step
		if math.Abs(p.X-baseX) > horizontalJitter {
			t.Fatalf("position %d: x %.2f too far from %.2f", i, p.X, baseX)
		}
		if p.Y < 80-25 || p.Y > 80+25 {
			t.Fatalf("position %d: y %.2f outside [55,105]", i, p.Y)
		}
	}
}

func TestPositionsIndependentOfAngles(t *testing.T) {
	want := NewAnglesWithRand(rand.New(rand.NewSource(5))).Generate(20, 5)

	angles := NewAnglesWithRand(rand.New(rand.NewSource(5)))
	positions := NewPositionsWithRand(rand.New(rand.NewSource(5)))
	_ = positions.Generate(20, model.Layout{Width: 200, Height: 50})
	got := angles.Generate(20, 5)
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("position draws disturbed angle stream at %d", i)
		}
	}
}
