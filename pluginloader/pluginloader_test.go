package pluginloader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/pluginloader"
	"github.com/momemta/momemta-go/registry"
)

// A real .so plugin cannot be produced without invoking the Go toolchain,
// so these tests exercise the error path and the loader's bookkeeping
// rather than a full Load happy path.

func TestLoadMissingPathFailsWithPluginError(t *testing.T) {
	l := pluginloader.New()
	r := registry.New()

	err := l.Load("/nonexistent/path/does-not-exist.so", r)
	require.Error(t, err)
	var perr *merr.PluginError
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, l.Loaded())
}

func TestLoadedStartsEmpty(t *testing.T) {
	l := pluginloader.New()
	assert.Empty(t, l.Loaded())
}
