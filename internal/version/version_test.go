package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	prev := []string{buildVersion, buildDate, buildCommit}
	defer func() { buildVersion, buildDate, buildCommit = prev[0], prev[1], prev[2] }()

	buildVersion, buildDate, buildCommit = "v1.2.0", "", "abc123"

	var buf bytes.Buffer
	Print(&buf)
	assert.Equal(t, "Build version: v1.2.0\nBuild date: N/A\nBuild commit: abc123\n", buf.String())
	assert.Equal(t, Info{Version: "v1.2.0", Date: "N/A", Commit: "abc123"}, Get())
}
