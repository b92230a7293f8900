package logutil

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Default(t *testing.T) {
	lg, err := NewLogger(&config.Log{})
	require.NoError(t, err)
	assert.True(t, lg.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, lg.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&config.Log{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(&config.Log{Format: "xml"})
	assert.EqualError(t, err, "invalid log format: xml")
}

func TestNewLogger_File(t *testing.T) {
	dir, err := ioutil.TempDir("", "rwdb-log")
	require.NoError(t, err)
	filename := filepath.Join(dir, "rwdb.log")

	lg, err := NewLogger(&config.Log{
		Level:  "debug",
		Format: LogFormatJSON,
		LogFile: config.LogFile{
			Filename:   filename,
			MaxSize:    1,
			MaxDays:    1,
			MaxBackups: 1,
		},
	})
	require.NoError(t, err)
	lg.Debug("hello", zap.String("k", "v"))
	require.NoError(t, lg.Sync())

	data, err := ioutil.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestReplaceLogger(t *testing.T) {
	nop := zap.NewNop()
	restore := ReplaceLogger(nop)
	assert.Equal(t, nop, BgLogger())
	restore()
	assert.NotEqual(t, nop, BgLogger())
}
