package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.Equal(t, BuildDate, info.BuildDate)
	assert.NotEmpty(t, info.InstanceID)
	assert.NotEmpty(t, info.Hostname)
}

func TestGetInfo_Cached(t *testing.T) {
	first := GetInfo()
	second := GetInfo()

	// Instance ID is generated once and must be stable across calls.
	assert.Equal(t, first.InstanceID, second.InstanceID)
	assert.Equal(t, first.Hostname, second.Hostname)
}

func TestInfo_String(t *testing.T) {
	i := Info{Version: "v1.2.3", GitCommit: "abc123", BuildDate: "2026-01-01T00:00:00Z"}
	s := i.String()

	assert.Contains(t, s, "v1.2.3")
	assert.Contains(t, s, "abc123")
	assert.Contains(t, s, "2026-01-01T00:00:00Z")
}
