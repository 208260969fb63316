package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"", "auto", "json", "console", "pretty", " JSON "} {
		logger, err := New("publish", Config{Level: "debug", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, logger, format)
	}

	_, err := New("publish", Config{Format: "xml"})
	assert.Error(t, err)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("auto"))
	assert.True(t, ValidFormat(""))
	assert.False(t, ValidFormat("syslog"))
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "", normalizeLevel("loud"))
	assert.NotEmpty(t, normalizeLevel("Warning"))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", 1)
	l.Error("ignored")
}
