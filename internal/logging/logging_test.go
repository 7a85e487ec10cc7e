package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputIncludesServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("service", "multichannel").Logger()
	logger.Info().Msg("hello")
	require.Contains(t, buf.String(), `"service":"multichannel"`)
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	require.Equal(t, zerolog.InfoLevel, parseLevel("unknown"))
	require.Equal(t, zerolog.DebugLevel, parseLevel(LevelDebug))
	require.Equal(t, zerolog.ErrorLevel, parseLevel(LevelError))
}

func TestErrorAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	Error(logger, errBoom, "push failed", map[string]interface{}{"channel": 7})
	require.Contains(t, buf.String(), `"channel":7`)
	require.Contains(t, buf.String(), "push failed")
}

var errBoom = boomErr{}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }
