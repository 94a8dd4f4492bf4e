package reveal

import "testing"

func TestRevealRotation(t *testing.T) {
	if got := Reveal(90).RotationDegrees; got != 0 {
		t.Fatalf("expected 0 rotation, got %v", got)
	}
	r := Reveal(87.5)
	if r.RotationDegrees != -2.5 {
		t.Fatalf("expected -2.5 rotation, got %v", r.RotationDegrees)
	}
	if r.DisplayAngle != 87.5 {
		t.Fatalf("expected display 87.5, got %v", r.DisplayAngle)
	}
	if Reveal(87.5) != r {
		t.Fatalf("expected repeated reveal to be identical")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(Reveal(92.25)); got != "92.2°" && got != "92.3°" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Label(Reveal(90)); got != "90.0°" {
		t.Fatalf("unexpected label %q", got)
	}
}
