package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"ReleaseID", KeyReleaseID, "r-1", ReleaseID("r-1")},
		{"Step", KeyStep, "build", Step("build")},
		{"Status", KeyStatus, "ok", Status("ok")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Command", KeyCommand, "twine upload", Command("twine upload")},
		{"Project", KeyProject, "json4", Project("json4")},
		{"Version", KeyVersion, "1.0.2", Version("1.0.2")},
		{"Artifact", KeyArtifact, "json4-1.0.2-py3-none-any.whl", Artifact("json4-1.0.2-py3-none-any.whl")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Errorf("%s: expected key %q, got %q", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Errorf("%s: expected value %q, got %q", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestErrorHelper(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Errorf("nil error should produce empty value, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Errorf("expected 'boom', got %q", got)
	}
}
