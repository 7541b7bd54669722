package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// fileHook mirrors every entry to writer using its own formatter, so the
// console keeps text output while the file gets JSON lines.
type fileHook struct {
	mu        sync.Mutex
	writer    io.Writer
	formatter logrus.Formatter
	fields    logrus.Fields
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(e *logrus.Entry) error {
	data := make(logrus.Fields, len(e.Data)+len(h.fields))
	for k, v := range h.fields {
		data[k] = v
	}
	for k, v := range e.Data {
		data[k] = v
	}

	entry := *e
	entry.Data = data
	entry.Buffer = nil

	b, err := h.formatter.Format(&entry)
	if err != nil {
		return fmt.Errorf("format log record: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.writer.Write(b)
	return err
}
