// Package logging configures the structured JSON log the service writes
// and provides the reader that recovers operation blocks from it.
//
// Save and fetch operations bracket their log lines with ==START ...== /
// ==END ...== marker messages; the reader tails the most recent complete
// block so operators (and the /logs/warnings endpoint) can see what the
// last operation complained about.
package logging

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const filePrefix = "forms-"

// New builds the service logger. With a log directory configured it
// writes JSON lines to a per-day file there; otherwise JSON goes to
// stdout. The level is debug because the operation markers are debug
// lines and the reader depends on them being present.
func New(dir string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		log.SetOutput(&dailyWriter{dir: dir})
	}
	return log, nil
}

// FilePath returns the log file path for a given day.
func FilePath(dir string, day time.Time) string {
	return filepath.Join(dir, filePrefix+day.Format("2006-01-02")+".log")
}

// dailyWriter appends to the current day's log file, rolling over when
// the date changes under a long-running process.
type dailyWriter struct {
	dir string

	mu   sync.Mutex
	day  string
	file *os.File
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	if w.file == nil || w.day != today {
		if w.file != nil {
			_ = w.file.Close()
		}
		f, err := os.OpenFile(FilePath(w.dir, time.Now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return 0, err
		}
		w.file = f
		w.day = today
	}
	return w.file.Write(p)
}
