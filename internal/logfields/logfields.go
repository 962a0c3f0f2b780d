// Package logfields centralizes slog attribute helpers so field names stay
// consistent across packages.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyReleaseID  = "release_id"
	KeyStep       = "step"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCommand    = "command"
	KeyProject    = "project"
	KeyVersion    = "version"
	KeyArtifact   = "artifact"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ReleaseID(id string) slog.Attr   { return slog.String(KeyReleaseID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Project(p string) slog.Attr      { return slog.String(KeyProject, p) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Artifact(a string) slog.Attr     { return slog.String(KeyArtifact, a) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
