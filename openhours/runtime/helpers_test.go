//go:build unit

package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/LerianStudio/lib-openhours/openhours/log"
)

// recordingLogger keeps every message it receives and signals the first one.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
	once     sync.Once
	first    chan struct{}
}

func newTestLogger() *recordingLogger {
	return &recordingLogger{first: make(chan struct{})}
}

func (r *recordingLogger) Log(_ context.Context, _ log.Level, msg string, _ ...log.Field) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()

	r.once.Do(func() { close(r.first) })
}

func (r *recordingLogger) wasPanicLogged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.messages) > 0
}

func (r *recordingLogger) lastMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.messages) == 0 {
		return ""
	}

	return r.messages[len(r.messages)-1]
}

func (r *recordingLogger) waitForPanicLog(timeout time.Duration) bool {
	select {
	case <-r.first:
		return true
	case <-time.After(timeout):
		return false
	}
}
