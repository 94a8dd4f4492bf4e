package pool

import (
	"testing"

	"github.com/verte-zerg/incense/internal/model"
)

func buildPool() *Pool {
	p := New()
	p.Build([]float64{90, 85, 90}, []model.Vec2{{X: 1}, {X: 2}, {X: 3}})
	return p
}

func TestBuildAssignsIDsInOrder(t *testing.T) {
	p := buildPool()
	if p.Len() != 3 {
		t.Fatalf("expected 3 sticks, got %d", p.Len())
	}
	for i, s := range p.Sticks() {
		if s.ID != i {
			t.Fatalf("expected id %d, got %d", i, s.ID)
		}
		if s.Position.X != float64(i+1) {
			t.Fatalf("stick %d: unexpected position %+v", i, s.Position)
		}
		if s.Consumed {
			t.Fatalf("stick %d should start unconsumed", i)
		}
	}
}

func TestResolveOnce(t *testing.T) {
	p := buildPool()
	angle, found, already := p.Resolve(1)
	if !found || already || angle != 85 {
		t.Fatalf("first resolve: angle=%v found=%v already=%v", angle, found, already)
	}
	angle, found, already = p.Resolve(1)
	if !found || !already || angle != 85 {
		t.Fatalf("second resolve: angle=%v found=%v already=%v", angle, found, already)
	}
	if p.Remaining() != 2 {
		t.Fatalf("expected 2 remaining, got %d", p.Remaining())
	}
}

func TestResolveUnknown(t *testing.T) {
	p := buildPool()
	for _, id := range []int{-1, 3, 100} {
		if _, found, already := p.Resolve(id); found || already {
			t.Fatalf("id %d: expected not found", id)
		}
	}
	if p.Remaining() != 3 {
		t.Fatalf("unknown ids must not mutate the pool")
	}
}

func TestRemainingMatching(t *testing.T) {
	p := buildPool()
	if got := p.RemainingMatching(90); got != 2 {
		t.Fatalf("expected 2 upright, got %d", got)
	}
	p.Resolve(0)
	if got := p.RemainingMatching(90); got != 1 {
		t.Fatalf("expected 1 upright, got %d", got)
	}
}

func TestSticksReturnsCopy(t *testing.T) {
	p := buildPool()
	sticks := p.Sticks()
	sticks[0].Consumed = true
	if s, _ := p.Stick(0); s.Consumed {
		t.Fatalf("mutating the copy leaked into the pool")
	}
}

func TestClear(t *testing.T) {
	p := buildPool()
	p.Clear()
	if p.Len() != 0 {
		t.Fatalf("expected empty pool, got %d", p.Len())
	}
	if _, found, _ := p.Resolve(0); found {
		t.Fatalf("expected cleared pool to resolve nothing")
	}
}
