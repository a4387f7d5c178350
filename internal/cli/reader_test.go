package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
	}{
		{
			name:          "successful read",
			input:         "click this link\n",
			expectedValue: "click this link",
		},
		{
			name:          "read with extra whitespace",
			input:         "  http://example.com  \n",
			expectedValue: "http://example.com",
		},
		{
			name:          "empty line",
			input:         "\n",
			expectedValue: "",
		},
		{
			name:          "unterminated final line",
			input:         "last words",
			expectedValue: "last words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))

			result, err := r.ReadLine(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, result)
		})
	}
}

func TestLineReader_EOF(t *testing.T) {
	r := NewLineReader(strings.NewReader("one\n"))
	ctx := context.Background()

	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	_, err = r.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_ReadAll(t *testing.T) {
	input := "Dear customer,\n  your account is locked.\n"
	r := NewLineReader(strings.NewReader(input))

	text, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, input, text)
}

func TestLineReader_ContextCancellation(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	r := NewLineReader(pr)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewLineReader_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewLineReader(nil) })
}
