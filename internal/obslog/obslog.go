// Package obslog provides the server's file-backed structured loggers.
// The LSP transport owns stdio for wire framing, so nothing in this
// process may write to stdout/stderr once the server loop starts;
// every diagnostic instead goes to one of three logrus loggers backed
// by plain *os.File sinks under logs/, mirroring the teacher's own
// separation of its diagnostics-pipeline logs from its LSP connection.
package obslog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Loggers bundles the three file-backed loggers the specification's
// on-disk layout names: server.log for steady-state operation,
// boot.log for initialisation, fatal.log for unrecoverable failures.
type Loggers struct {
	Server *logrus.Logger
	Boot   *logrus.Logger
	Fatal  *logrus.Logger

	files []*os.File
}

// Open creates logs/{server.log,boot.log,fatal.log} under dir (creating
// dir if needed) and returns loggers writing to them in JSON form.
func Open(dir string) (*Loggers, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	l := &Loggers{}
	var err error
	l.Server, err = fileLogger(dir, "server.log", &l.files)
	if err != nil {
		return nil, err
	}
	l.Boot, err = fileLogger(dir, "boot.log", &l.files)
	if err != nil {
		return nil, err
	}
	l.Fatal, err = fileLogger(dir, "fatal.log", &l.files)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func fileLogger(dir, name string, files *[]*os.File) (*logrus.Logger, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	*files = append(*files, f)
	log := logrus.New()
	log.SetOutput(f)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}

// Close releases the underlying file handles.
func (l *Loggers) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Discard returns Loggers that drop everything, for tests and callers
// that have not (yet) set up an on-disk logs directory.
func Discard() *Loggers {
	discard := func() *logrus.Logger {
		log := logrus.New()
		log.SetOutput(io.Discard)
		return log
	}
	return &Loggers{Server: discard(), Boot: discard(), Fatal: discard()}
}
