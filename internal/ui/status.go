// Package ui carries the small presentation models the side panel and
// popup render from. Everything here is pure data mapping.
package ui

import "github.com/hubworks/sitepilot/internal/model"

// StatusSurface is what a status token renders as.
type StatusSurface struct {
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	CSSClass string `json:"cssClass"`
}

var statusSurfaces = map[model.StepStatus]StatusSurface{
	model.StatusSuccess: {Icon: "✓", Title: "Success", CSSClass: "status-success"},
	model.StatusPartial: {Icon: "◐", Title: "Partial", CSSClass: "status-partial"},
	model.StatusSkipped: {Icon: "○", Title: "Skipped", CSSClass: "status-skipped"},
	model.StatusFailed:  {Icon: "✗", Title: "Failed", CSSClass: "status-failed"},
}

var unknownSurface = StatusSurface{Icon: "?", Title: "Unknown", CSSClass: "status-unknown"}

// SurfaceFor maps a status token to its rendering surface. Unknown
// tokens get a neutral placeholder instead of an error.
func SurfaceFor(status model.StepStatus) StatusSurface {
	if s, ok := statusSurfaces[status]; ok {
		return s
	}
	return unknownSurface
}
