// =============================================================================
// pkg/trace/writer.go - Buffered Trace File Writers
// =============================================================================

package trace

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// writerBufferSize is the bufio buffer per output file. Worker sets open
// NumThreads+1 files at once, so this stays moderate.
const writerBufferSize = 1 << 20

// fileWriter is a buffered line writer over a single output file.
//
// Close flushes and closes exactly once; later calls are no-ops. This lets
// the run driver close the load file mid-run at the phase transition and
// still run an unconditional close-everything pass on exit.
type fileWriter struct {
	path   string
	f      *os.File
	w      *bufio.Writer
	closed bool
}

func newFileWriter(path string) (*fileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create output file %s", path)
	}
	return &fileWriter{path: path, f: f, w: bufio.NewWriterSize(f, writerBufferSize)}, nil
}

func (fw *fileWriter) writeLine(s string) error {
	if _, err := fw.w.WriteString(s); err != nil {
		return errors.Wrapf(err, "failed to write to %s", fw.path)
	}
	if err := fw.w.WriteByte('\n'); err != nil {
		return errors.Wrapf(err, "failed to write to %s", fw.path)
	}
	return nil
}

func (fw *fileWriter) close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true

	flushErr := fw.w.Flush()
	closeErr := fw.f.Close()
	if flushErr != nil {
		return errors.Wrapf(flushErr, "failed to flush %s", fw.path)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "failed to close %s", fw.path)
	}
	return nil
}
