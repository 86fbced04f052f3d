package execution

import (
	"bytes"
	"strings"
)

// collector captures process output up to a byte limit. It always reports the full
// write so the process never sees a short write.
type collector struct {
	buf       bytes.Buffer
	maxBytes  int
	truncated bool
}

func newCollector(maxBytes int) *collector {
	return &collector{maxBytes: maxBytes}
}

func (c *collector) Write(p []byte) (int, error) {
	remaining := c.maxBytes - c.buf.Len()
	if remaining <= 0 {
		c.truncated = true
		return len(p), nil
	}
	toWrite := p
	if len(toWrite) > remaining {
		toWrite = toWrite[:remaining]
		c.truncated = true
	}
	if _, err := c.buf.Write(toWrite); err != nil {
		return 0, err
	}
	return len(p), nil
}

// lines splits the collected output into lines, dropping trailing blank lines.
func (c *collector) lines() []string {
	text := strings.TrimRight(c.buf.String(), "\n")
	if text == "" {
		return nil
	}
	out := strings.Split(text, "\n")
	for i := range out {
		out[i] = strings.TrimSuffix(out[i], "\r")
	}
	return out
}
