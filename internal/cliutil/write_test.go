package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d resources", "stripe", 42)
	assert.Equal(t, "stripe: 42 resources", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("simulated write error")
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(failingWriter{}, "lost") })
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{-1, "-1 B"},
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{10 << 20, "10 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.size))
		})
	}
}
