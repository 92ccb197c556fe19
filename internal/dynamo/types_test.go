package dynamo

import (
	"math"
	"testing"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}

	if got := a.Add(b); got != (Vec2{5, 8}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec2{3, 4}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vec2{2, 4}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := b.Sub(a).Len(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Len = %v, want 5", got)
	}
}

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", Vec2{1.5, -2}, true},
		{"NaN", Vec2{math.NaN(), 0}, false},
		{"+Inf", Vec2{0, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}

	if !vp.Valid() {
		t.Fatal("expected valid viewport")
	}
	if (Viewport{Width: 0, Height: 10}).Valid() {
		t.Error("zero width should be invalid")
	}
	if (Viewport{Width: 10, Height: -1}).Valid() {
		t.Error("negative height should be invalid")
	}
	if c := vp.Center(); c != (Vec2{400, 300}) {
		t.Errorf("Center = %v", c)
	}

	for _, p := range []Vec2{{0, 0}, {800, 600}, {400, 0}} {
		if !vp.Contains(p) {
			t.Errorf("expected %v inside", p)
		}
	}
	for _, p := range []Vec2{{-0.1, 0}, {800.1, 10}, {10, 600.5}} {
		if vp.Contains(p) {
			t.Errorf("expected %v outside", p)
		}
	}
}

func TestAdjacency_Pairs(t *testing.T) {
	adj := Adjacency{
		{{From: 0, To: 1, Distance: 3, Strength: 0.5}, {From: 0, To: 2, Distance: 4, Strength: 0.2}},
		{{From: 1, To: 0, Distance: 3, Strength: 0.5}},
		{{From: 2, To: 0, Distance: 4, Strength: 0.2}},
	}

	if n := adj.Edges(); n != 2 {
		t.Errorf("expected 2 edges, got %d", n)
	}

	adj.Pairs(func(c Connection) {
		if c.From >= c.To {
			t.Errorf("pair not ordered: %+v", c)
		}
	})

	if adj.Of(5) != nil || adj.Of(-1) != nil {
		t.Error("out of range id should have no connections")
	}
	if len(adj.Of(0)) != 2 {
		t.Errorf("expected 2 connections for 0, got %d", len(adj.Of(0)))
	}
}
