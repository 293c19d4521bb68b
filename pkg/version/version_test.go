package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBuildInfo overrides the ldflags variables for the duration of a test
func setBuildInfo(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, buildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuildTime
	})
}

func TestGetDefaults(t *testing.T) {
	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.GitCommit)
	assert.Contains(t, info.GoVersion, "go")
}

func TestGetReflectsLinkerFlags(t *testing.T) {
	setBuildInfo(t, "0.4.2", "3f9c1e7a0b", "2026-10-01T09:34:29Z")

	info := Get()
	assert.Equal(t, "0.4.2", info.Version)
	assert.Equal(t, "3f9c1e7a0b", info.GitCommit)
	assert.Equal(t, "2026-10-01T09:34:29Z", info.BuildTime)
}

func TestInfoShort(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "release build",
			info: Info{Version: "0.4.2", GitCommit: "3f9c1e7a0b2d"},
			want: "skillmgr 0.4.2 (3f9c1e7)",
		},
		{
			name: "short commit kept",
			info: Info{Version: "0.4.2", GitCommit: "3f9c"},
			want: "skillmgr 0.4.2 (3f9c)",
		},
		{
			name: "local build",
			info: Info{Version: "dev", GitCommit: "unknown"},
			want: "skillmgr dev (unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Short())
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "0.4.2", GitCommit: "3f9c1e7", BuildTime: "2026-10-01T09:34:29Z", GoVersion: "go1.25.1"}
	assert.Equal(t,
		"Version: 0.4.2, GitCommit: 3f9c1e7, BuildTime: 2026-10-01T09:34:29Z, GoVersion: go1.25.1",
		info.String())
}

func TestInfoJSON(t *testing.T) {
	info := Info{Version: "0.4.2", GitCommit: "3f9c1e7", BuildTime: "2026-10-01T09:34:29Z", GoVersion: "go1.25.1"}

	out, err := info.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{
  "version": "0.4.2",
  "gitCommit": "3f9c1e7",
  "buildTime": "2026-10-01T09:34:29Z",
  "goVersion": "go1.25.1"
}`, out)

	var parsed Info
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, info, parsed)
}
