// =============================================================================
// pkg/twitter/split.go - Per-Thread Trace Splitting
// =============================================================================
//
// The benchmark replays the trace from one file per worker thread, so the
// reformatted trace is dealt round-robin across numWorkers files named
// workload_00 .. workload_NN under outDir. With a single worker the trace
// is copied through unchanged.
//
// =============================================================================

package twitter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WorkerFileName returns the split output file name for worker i.
func WorkerFileName(i int) string {
	return fmt.Sprintf("workload_%02d", i)
}

// SplitTrace deals the lines of inPath round-robin across numWorkers files
// under outDir. It returns the total number of lines distributed. Every
// output file is created even when the input has fewer lines than workers.
func SplitTrace(inPath, outDir string, numWorkers int) (int64, error) {
	if numWorkers <= 0 {
		return 0, fmt.Errorf("number of workers must be positive, got %d", numWorkers)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open trace %s", inPath)
	}
	defer in.Close()

	if numWorkers == 1 {
		return copyTrace(in, filepath.Join(outDir, WorkerFileName(0)))
	}

	files := make([]*os.File, numWorkers)
	writers := make([]*bufio.Writer, numWorkers)
	defer func() {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
	}()
	for i := range files {
		path := filepath.Join(outDir, WorkerFileName(i))
		f, err := os.Create(path)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to create split file %s", path)
		}
		files[i] = f
		writers[i] = bufio.NewWriter(f)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var lines int64
	for scanner.Scan() {
		w := writers[lines%int64(numWorkers)]
		if _, err := w.WriteString(scanner.Text()); err != nil {
			return lines, errors.Wrap(err, "failed to write split line")
		}
		if err := w.WriteByte('\n'); err != nil {
			return lines, errors.Wrap(err, "failed to write split line")
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return lines, errors.Wrapf(err, "failed to read trace %s", inPath)
	}

	for i, w := range writers {
		if err := w.Flush(); err != nil {
			return lines, errors.Wrapf(err, "failed to flush split file %d", i)
		}
	}
	return lines, nil
}

// copyTrace copies the whole trace into a single worker file, counting its
// lines on the way through.
func copyTrace(in io.Reader, outPath string) (int64, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", outPath)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var lines int64
	for scanner.Scan() {
		if _, err := w.WriteString(scanner.Text()); err != nil {
			return lines, errors.Wrapf(err, "failed to write %s", outPath)
		}
		if err := w.WriteByte('\n'); err != nil {
			return lines, errors.Wrapf(err, "failed to write %s", outPath)
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return lines, errors.Wrap(err, "failed to read trace")
	}
	return lines, w.Flush()
}
