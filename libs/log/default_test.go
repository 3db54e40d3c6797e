package log_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tendermint/auctiond/libs/log"
)

func TestNewDefaultLogger(t *testing.T) {
	testCases := map[string]struct {
		format    string
		level     string
		expectErr bool
	}{
		"invalid format": {
			format:    "foo",
			level:     log.LogLevelInfo,
			expectErr: true,
		},
		"invalid level": {
			format:    log.LogFormatJSON,
			level:     "foo",
			expectErr: true,
		},
		"valid format and level": {
			format:    log.LogFormatJSON,
			level:     log.LogLevelInfo,
			expectErr: false,
		},
	}

	for name, tc := range testCases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			_, err := log.NewDefaultLogger(tc.format, tc.level)
			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultLoggerFields(t *testing.T) {
	var buf bytes.Buffer

	logger, err := log.NewDefaultLoggerWithWriter(&buf, log.LogFormatJSON, log.LogLevelInfo)
	require.NoError(t, err)

	logger.With("module", "auction").Info("bid placed", "amount", 60)
	out := buf.String()
	require.True(t, strings.Contains(out, `"module":"auction"`), out)
	require.True(t, strings.Contains(out, `"amount":60`), out)
	require.True(t, strings.Contains(out, `"message":"bid placed"`), out)

	buf.Reset()
	logger.Debug("dropped")
	require.Empty(t, buf.String())
}

func TestServiceLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := log.ServiceLogger(log.MustNewDefaultLoggerWithWriter(&buf, log.LogFormatJSON, log.LogLevelDebug))
	logger.With("module", "abci-server").Error("accept failed", "err", "closed")
	out := buf.String()
	require.True(t, strings.Contains(out, `"module":"abci-server"`), out)
	require.True(t, strings.Contains(out, `"level":"error"`), out)
}

func TestHexadecimalField(t *testing.T) {
	var buf bytes.Buffer

	logger := log.MustNewDefaultLoggerWithWriter(&buf, log.LogFormatJSON, log.LogLevelInfo)
	logger.Info("committed", "hash", log.NewHexadecimal([]byte{0xab, 0x01}))
	require.True(t, strings.Contains(buf.String(), `"hash":"AB01"`), buf.String())
}
