package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/seqrungo/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output   string
	Err      error
	App      *app.App
	Recorder *RecorderTool
}

// WriteSequenceFiles writes the given relative-path -> HCL content map under
// a fresh temp directory and returns its path.
func WriteSequenceFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return tmpDir
}

// RunSequenceTest provides a standardized harness for end-to-end tests: it
// writes the HCL files to a temp dir, builds an App around a RecorderTool,
// runs it, and returns everything a test needs to assert on.
func RunSequenceTest(t *testing.T, files map[string]string, recorder *RecorderTool, config *app.Config) *HarnessResult {
	t.Helper()

	if recorder == nil {
		recorder = &RecorderTool{}
	}
	if config == nil {
		config = &app.Config{}
	}
	if config.SequencePath == "" {
		config.SequencePath = WriteSequenceFiles(t, files)
	}
	if config.LogLevel == "" {
		config.LogLevel = "debug"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}

	out := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, config, app.WithTool(recorder))
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output:   out.String(),
			Err:      fmt.Errorf("application startup panicked | %v", panicErr),
			Recorder: recorder,
		}
	}

	runErr := testApp.Run(context.Background())

	return &HarnessResult{
		Output:   out.String(),
		Err:      runErr,
		App:      testApp,
		Recorder: recorder,
	}
}
