package gemini

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectFrames(t *testing.T, input string) [][]string {
	t.Helper()
	scanner := newFrameScanner(strings.NewReader(input))
	var frames [][]string
	for {
		lines, err := scanner.Next()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, lines)
	}
}

func TestFrameScannerSplitsOnBlankLines(t *testing.T) {
	frames := collectFrames(t, "data: a\n\ndata: b\ndata: c\n\n")
	require.Len(t, frames, 2)
	assert.Equal(t, []string{"data: a"}, frames[0])
	assert.Equal(t, []string{"data: b", "data: c"}, frames[1])
}

func TestFrameScannerReturnsTrailingFrame(t *testing.T) {
	frames := collectFrames(t, "data: a\n\ndata: pending")
	require.Len(t, frames, 2)
	assert.Equal(t, []string{"data: pending"}, frames[1])
}

func TestFrameScannerSkipsLeadingBlankLines(t *testing.T) {
	frames := collectFrames(t, "\n\n\ndata: a\n\n")
	require.Len(t, frames, 1)
}

func TestFrameScannerHandlesCRLF(t *testing.T) {
	frames := collectFrames(t, "data: a\r\n\r\ndata: b\r\n\r\n")
	require.Len(t, frames, 2)
	assert.Equal(t, []string{"data: a"}, frames[0])
}

func TestParseFrameJoinsDataLines(t *testing.T) {
	payload, ok := parseFrame([]string{"data: {\"x\":", "data: 1}"})
	assert.True(t, ok)
	assert.Equal(t, "{\"x\":\n1}", payload)
}

func TestParseFrameIgnoresCommentsAndOtherFields(t *testing.T) {
	payload, ok := parseFrame([]string{": keepalive", "event: message", "id: 7", "data: hello"})
	assert.True(t, ok)
	assert.Equal(t, "hello", payload)
}

func TestParseFrameSkipsDoneSentinel(t *testing.T) {
	_, ok := parseFrame([]string{"data: [DONE]"})
	assert.False(t, ok)
}

func TestParseFrameEmpty(t *testing.T) {
	_, ok := parseFrame([]string{": keepalive"})
	assert.False(t, ok)

	_, ok = parseFrame([]string{"data: "})
	assert.False(t, ok)
}

func TestParseFrameWithoutSpaceAfterColon(t *testing.T) {
	payload, ok := parseFrame([]string{"data:hello"})
	assert.True(t, ok)
	assert.Equal(t, "hello", payload)
}
