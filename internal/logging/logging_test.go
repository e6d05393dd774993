package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(Options{Level: tt.level, Output: &bytes.Buffer{}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, NoColor: true})
	require.NoError(t, err)

	logger.WithField("total", 4).Info("frame counted")

	out := buf.String()
	assert.Contains(t, out, "frame counted")
	assert.Contains(t, out, "total:4")
}

func TestNew_FileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "fingercount.log")

	logger, err := New(Options{Output: &bytes.Buffer{}, File: file, NoColor: true})
	require.NoError(t, err)

	logger.Info("hello file")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}
