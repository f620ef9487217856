package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"empty", Info{}, "dev"},
		{"version only", Info{Version: "v0.3.0", Commit: "unknown", BuildDate: "unknown"}, "v0.3.0"},
		{
			"full",
			Info{Version: "v0.3.0", Commit: "abc123", BuildDate: "2026-01-02", GoVersion: "go1.25.3"},
			"v0.3.0 (abc123, built 2026-01-02, go1.25.3)",
		},
		{"go only", Info{Version: "v1", GoVersion: "go1.25.3"}, "v1 (go1.25.3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}
