package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBeforeInitIsDiscarded(t *testing.T) {
	assert.NotNil(t, Zap())
	Infof("discarded %d", 1)
	Infow("discarded", "k", "v")
	Sync()
}

func TestInit(t *testing.T) {
	require.NoError(t, Init(true))
	assert.NotNil(t, Zap())
	Debugf("debug %s", "on")
	Warnf("warn %s", "on")
}
