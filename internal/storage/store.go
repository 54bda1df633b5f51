package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"tick", "id", "x", "y", "vx", "vy", "radius", "hue"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Count          int                `json:"count"`
	Width          float64            `json:"width"`
	Height         float64            `json:"height"`
	Seed           uint32             `json:"seed"`
	Ticks          int                `json:"ticks"`
	SampleEvery    int                `json:"sample_every"`
	Parallel       bool               `json:"parallel"`
	StepsTaken     int                `json:"steps_taken"`
	StepsPerSecond float64            `json:"steps_per_second"`
	Metrics        map[string]float64 `json:"metrics"`
}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("p%d_%d", cfg.Count, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Timestamp:      now,
		Count:          cfg.Count,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Seed:           cfg.Seed,
		Ticks:          cfg.Ticks,
		SampleEvery:    cfg.SampleEvery,
		Parallel:       cfg.Parallel,
		StepsTaken:     result.StepsTaken,
		StepsPerSecond: result.StepsPerSecond,
		Metrics:        result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteFramesCSV(w, frames); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteFramesCSV writes one row per particle per frame. A frame with no
// particles gets a single row holding only its tick. The caller flushes.
func WriteFramesCSV(w *csv.Writer, frames []sim.Frame) error {
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, fr := range frames {
		tick := strconv.FormatUint(fr.Tick, 10)
		if len(fr.Particles) == 0 {
			if err := w.Write(emptyFrameRow(tick)); err != nil {
				return err
			}
			continue
		}
		for id, p := range fr.Particles {
			row := []string{
				tick,
				strconv.Itoa(id),
				formatFloat(p.X),
				formatFloat(p.Y),
				formatFloat(p.VX),
				formatFloat(p.VY),
				formatFloat(p.Radius),
				formatFloat(p.Hue),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func emptyFrameRow(tick string) []string {
	row := make([]string, len(frameHeader))
	row[0] = tick
	return row
}

// formatFloat keeps full precision so a reloaded frame matches bit for bit.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	frames := make([]sim.Frame, 0)
	for i := 1; i < len(records); i++ {
		record := records[i]

		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
		}

		if len(frames) == 0 || frames[len(frames)-1].Tick != tick {
			frames = append(frames, sim.Frame{Tick: tick})
		}
		if record[1] == "" {
			continue
		}

		vals := make([]float64, 6)
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+2], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
			}
		}

		last := &frames[len(frames)-1]
		last.Particles = append(last.Particles, particle.NewParticle(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]))
	}

	return frames, nil
}

// Trajectory pulls one particle's path out of a frame sequence.
func Trajectory(frames []sim.Frame, id int) ([]particle.Particle, error) {
	out := make([]particle.Particle, 0, len(frames))
	for _, fr := range frames {
		if id < 0 || id >= len(fr.Particles) {
			return nil, fmt.Errorf("particle %d not in frame at tick %d (%d particles)", id, fr.Tick, len(fr.Particles))
		}
		out = append(out, fr.Particles[id])
	}
	return out, nil
}
