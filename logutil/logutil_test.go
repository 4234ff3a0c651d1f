package logutil

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewWritesFormattedLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, false)
	logger.Info().Msg("hello")
	require.Contains(t, buf.String(), "INFO")
	require.Contains(t, buf.String(), "hello")
}

func TestNewDebugFlagLowersLevelFloor(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, true)
	logger.Debug().Msg("quiet thing")
	require.Contains(t, buf.String(), "quiet thing")
}

func TestNewWithoutDebugSuppressesDebugLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, false)
	logger.Debug().Msg("should not appear")
	require.Empty(t, buf.String())
}

func TestNopDiscardsEverything(t *testing.T) {
	logger := Nop()
	logger.Info().Msg("into the void")
}
