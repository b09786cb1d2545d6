package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func restore(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })
}

func TestCacheScope(t *testing.T) {
	tests := []struct {
		version, commit string
		want            string
	}{
		{"v1.2.0", "0123456789abcdef", "v1.2.0:"},
		{"dev", "0123456789abcdef", "dev+0123456789ab:"},
		{"dev", "abc", "dev+abc:"},
	}
	for _, tt := range tests {
		t.Run(tt.version+"/"+tt.commit, func(t *testing.T) {
			restore(t)
			Version, Commit = tt.version, tt.commit
			if got := CacheScope(); got != tt.want {
				t.Errorf("CacheScope() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromModule(t *testing.T) {
	restore(t)
	Version, Commit, Date = "dev", "none", "unknown"
	fromModule(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "feedface"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})
	if Version != "v0.3.1" || Commit != "feedface" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fromModule() = %s %s %s", Version, Commit, Date)
	}
}

func TestFromModuleKeepsInjectedValues(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "abc", "today"
	fromModule(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}},
	})
	if Version != "v1.0.0" || Commit != "abc" || Date != "today" {
		t.Errorf("fromModule() overwrote ldflags values: %s %s %s", Version, Commit, Date)
	}
}

func TestTemplate(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "abc", "today"
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v1.0.0\n") {
		t.Errorf("Template() = %q", got)
	}
}
