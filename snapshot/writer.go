package snapshot

//CSVWriter persists particle state to the same
//"<output_file>.csv.<step>" naming and header the original solver used,
//through an afero.Fs so tests can assert against an in-memory
//filesystem instead of touching disk.

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/afero"

	particle "diesel.com/mpm/particle"
)

type CSVWriter struct {
	Fs         afero.Fs
	OutputFile string
}

func NewCSVWriter(fs afero.Fs, outputFile string) *CSVWriter {
	return &CSVWriter{Fs: fs, OutputFile: outputFile}
}

//WriteTimeStep writes one "x, y, z, velocity magnitude" CSV row per
//particle to <OutputFile>.csv.<step>, satisfying mpm.SnapshotWriter.
func (w *CSVWriter) WriteTimeStep(step int, particles []*particle.Particle) error {
	filename := fmt.Sprintf("%s.csv.%d", w.OutputFile, step)

	if dir := filepath.Dir(filename); dir != "." {
		if err := w.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: creating directory %q: %w", dir, err)
		}
	}

	file, err := w.Fs.Create(filename)
	if err != nil {
		return fmt.Errorf("snapshot: creating %q: %w", filename, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, "x, y, z, velocity magnitude"); err != nil {
		return fmt.Errorf("snapshot: writing header to %q: %w", filename, err)
	}

	for _, p := range particles {
		v := p.Velocity
		vmag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])

		if _, err := fmt.Fprintf(file, "%g, %g, %g, %g\n", p.Position[0], p.Position[1], p.Position[2], vmag); err != nil {
			return fmt.Errorf("snapshot: writing row to %q: %w", filename, err)
		}
	}

	return nil
}
