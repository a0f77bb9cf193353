package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		debug     bool
		wantDebug bool
	}{
		"default level hides debug": {debug: false, wantDebug: false},
		"debug level shows debug":   {debug: true, wantDebug: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := New(&buf, tt.debug)

			logger.Debug("resolving base", zap.String("kind", "latest-tag"))
			logger.Warn("catalog override ignored")
			_ = logger.Sync()

			out := buf.String()
			assert.Contains(t, out, "WARN")
			assert.Contains(t, out, "catalog override ignored")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("resolving base")))
			if tt.wantDebug {
				assert.Contains(t, out, `"kind": "latest-tag"`)
			}
		})
	}
}

func TestGitDebugf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	debugf := GitDebugf(New(&buf, true))
	debugf("[git] ListCommits %s..%s: %d commits", "v1.0.0", "master", 3)

	assert.Contains(t, buf.String(), "[git] ListCommits v1.0.0..master: 3 commits")
}
