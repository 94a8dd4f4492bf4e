// Package reveal maps a received angle to its end-of-round display.
package reveal

import (
	"fmt"

	"github.com/verte-zerg/incense/internal/model"
)

// Reveal returns the display angle and the rotation from upright.
func Reveal(received float64) model.Result {
	return model.Result{
		DisplayAngle:    received,
		RotationDegrees: received - 90,
	}
}

// Label formats the display angle.
func Label(r model.Result) string {
	return fmt.Sprintf("%.1f°", r.DisplayAngle)
}
