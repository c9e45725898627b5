package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, version, commit string) {
	t.Helper()
	oldVersion, oldCommit := Version, GitCommit
	Version, GitCommit = version, commit
	t.Cleanup(func() {
		Version, GitCommit = oldVersion, oldCommit
	})
}

func TestShort(t *testing.T) {
	withBuildInfo(t, "", "")
	assert.Equal(t, "kc-connector dev", Short())

	withBuildInfo(t, "v1.2.0", "0123456789abcdef")
	assert.Equal(t, "kc-connector v1.2.0 (0123456)", Short())
}

func TestDetails(t *testing.T) {
	withBuildInfo(t, "v1.2.0", "abc")

	out := Details()

	assert.Contains(t, out, "kc-connector version v1.2.0\n")
	assert.Contains(t, out, "Git commit: abc\n")
	assert.NotContains(t, out, "Build time")
}
