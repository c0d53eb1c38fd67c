package cli

import (
	"testing"

	"coursecraft-cli/internal/model"
)

func TestParseOpSpec(t *testing.T) {
	target, err := parseOpSpec("0.2.1:fact-check")
	if err != nil {
		t.Fatalf("parseOpSpec: %v", err)
	}
	if target.Path != model.SubtopicPath(0, 2, 1) || target.Kind != model.OpFactCheck {
		t.Fatalf("unexpected op %+v", target)
	}
	for _, bad := range []string{"0.1", "0.1:explode", "a:expand"} {
		if _, err := parseOpSpec(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
