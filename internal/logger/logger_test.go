package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestVerboseMessages(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("retrieved %d passages", 7) }, "[DEBUG] retrieved 7 passages\n"},
		{"info", func() { Info("Created document number %d from page %s", 1, "Example") }, "[INFO] Created document number 1 from page Example\n"},
		{"section", func() { Section("Book 7") }, "\n=== Book 7 ===\n"},
		{"timing", func() { Timing("set up 7", 1500*time.Millisecond) }, "[TIME] set up 7: 1.500s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
		t.Run(tt.name+" quiet", func(t *testing.T) {
			buf := capture(t, false)
			tt.log()
			assert.Empty(t, buf.String())
		})
	}
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("skipped %s: %s", "Example (film)", "missing")

	assert.Equal(t, "[WARN] skipped Example (film): missing\n", buf.String())
}

func TestConcurrentLogging(t *testing.T) {
	buf := capture(t, true)
	var bufMu sync.Mutex
	SetOutput(writerFunc(func(p []byte) (int, error) {
		bufMu.Lock()
		defer bufMu.Unlock()
		return buf.Write(p)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Info("worker %d", n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, bytes.Count(buf.Bytes(), []byte("[INFO]")))
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
