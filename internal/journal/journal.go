// Package journal appends diagnostic entries for failed punches to a text
// file, one line per event: "[YYYY-MM-DD HH:MM:SS] message".
package journal

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

type lineFormatter struct{}

func (lineFormatter) Format(entry *log.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("[%s] %s\n", entry.Time.Format(timestampFormat), entry.Message)), nil
}

// Journal is safe for concurrent use.
type Journal struct {
	logger *log.Logger
	closer io.Closer
}

// Open appends to path, creating it when missing.
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := New(file)
	j.closer = file
	return j, nil
}

// New writes entries to w.
func New(w io.Writer) *Journal {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(lineFormatter{})
	logger.SetLevel(log.InfoLevel)
	return &Journal{logger: logger}
}

// Record writes one entry. Line breaks in message are flattened so an entry
// never spans lines.
func (j *Journal) Record(message string) {
	if j == nil {
		return
	}
	flat := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(message)
	j.logger.Info(flat)
}

func (j *Journal) Close() error {
	if j == nil || j.closer == nil {
		return nil
	}
	return j.closer.Close()
}
