package models

import "time"

// Moving-average window bounds. The slider offers 1..30 with 7 preselected;
// out-of-range values are clamped, never rejected.
const (
	MinWindow     = 1
	MaxWindow     = 30
	DefaultWindow = 7
)

// ClampWindow forces w into [MinWindow, MaxWindow].
func ClampWindow(w int) int {
	if w < MinWindow {
		return MinWindow
	}
	if w > MaxWindow {
		return MaxWindow
	}
	return w
}

// Inputs is the mutable control state of one dashboard viewer: selected
// date range, plotted metric and moving-average window.
type Inputs struct {
	Range  DateRange
	Metric Metric
	Window int
}

// Session owns one viewer's inputs. All sessions share the immutable
// dataset; each holds an isolated Inputs copy.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
	Inputs    Inputs
}
