package gemini

import (
	"bufio"
	"io"
	"strings"
)

// frameScanner splits a server-sent-event byte stream into frames: runs of
// lines terminated by a blank line. It is a pure framing layer; it knows
// nothing about JSON or the upstream protocol.
type frameScanner struct {
	scanner *bufio.Scanner
	lines   []string
	err     error
}

func newFrameScanner(r io.Reader) *frameScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 8<<20)
	return &frameScanner{scanner: s}
}

// Next returns the raw lines of the next frame. A trailing frame without a
// blank-line terminator is still returned once the stream ends. io.EOF marks
// exhaustion.
func (f *frameScanner) Next() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	for f.scanner.Scan() {
		line := strings.TrimRight(f.scanner.Text(), "\r")
		if line == "" {
			if len(f.lines) == 0 {
				continue
			}
			frame := f.lines
			f.lines = nil
			return frame, nil
		}
		f.lines = append(f.lines, line)
	}

	if err := f.scanner.Err(); err != nil {
		f.err = err
		return nil, err
	}

	f.err = io.EOF
	if len(f.lines) > 0 {
		frame := f.lines
		f.lines = nil
		return frame, nil
	}
	return nil, io.EOF
}

// parseFrame extracts the joined data payload of one frame. Comment lines and
// non-data fields are ignored; multiple data lines concatenate with a newline
// per the SSE wire format. The terminal "[DONE]" sentinel and empty payloads
// yield ok=false.
func parseFrame(lines []string) (payload string, ok bool) {
	var dataLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		content := strings.TrimPrefix(line, "data:")
		content = strings.TrimPrefix(content, " ")
		if strings.TrimSpace(content) == "" || strings.TrimSpace(content) == "[DONE]" {
			continue
		}
		dataLines = append(dataLines, content)
	}

	if len(dataLines) == 0 {
		return "", false
	}
	return strings.Join(dataLines, "\n"), true
}
