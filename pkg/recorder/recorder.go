// Package recorder durably persists debate output. Every write follows the
// open-append-sync-close pattern: no file handle is held across the
// unbounded duration of a debate, so a crash mid-session loses at most the
// in-flight turn.
package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"FightBot/pkg/logger"
)

// Sink is the append-only output an agent writes each produced reply to.
// Implementations guarantee the data is flushed before Write returns.
type Sink interface {
	Write(text string) error
}

// FileSink appends to a single file, opening and closing it per write.
type FileSink struct {
	path string
}

// NewFileSink creates a sink appending to path. The parent directory is
// created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the sink's file location.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Write(text string) error {
	return appendAndSync(s.path, text)
}

func appendAndSync(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}

// Recorder appends each completed turn to a per-run transcript file.
// Single writer, single pass; durability before the loop moves on is the
// contract.
type Recorder struct {
	runID string
	path  string
	log   *logger.Logger
}

// New creates a recorder with a fresh run directory under baseDir.
func New(baseDir string, log *logger.Logger) (*Recorder, error) {
	runID := uuid.NewString()[:8]
	dir := filepath.Join(baseDir, "debate-"+runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &Recorder{
		runID: runID,
		path:  filepath.Join(dir, "transcript.log"),
		log:   log,
	}, nil
}

// RunID returns the run identifier embedded in the transcript path.
func (r *Recorder) RunID() string { return r.runID }

// Path returns the transcript file location, reported to the operator at
// session end so a debate can be resumed manually from its tail.
func (r *Recorder) Path() string { return r.path }

// Record appends one turn. Round 0 is the opening statement.
func (r *Recorder) Record(round int, speaker, content string) error {
	entry := fmt.Sprintf("[%s] round=%d speaker=%s\n%s\n\n",
		time.Now().Format(time.RFC3339), round, speaker, content)
	if err := appendAndSync(r.path, entry); err != nil {
		return err
	}
	r.log.Debugf("recorded round %d turn for %s", round, speaker)
	return nil
}

// AgentSink returns a per-agent response file sink inside the run
// directory, mirroring each agent's own output stream.
func (r *Recorder) AgentSink(name string) *FileSink {
	file := fmt.Sprintf("%s_responses.txt", sanitizeName(name))
	return NewFileSink(filepath.Join(filepath.Dir(r.path), file))
}

func sanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
