package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/metrics"
	"github.com/san-kum/partisim/internal/sim"
)

func runSmall(t *testing.T) (*config.Config, *sim.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Count = 4
	cfg.Width = 50
	cfg.Height = 40
	cfg.Ticks = 20
	cfg.SampleEvery = 5

	s := sim.New(cfg.NewSystem())
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	result, err := s.Run(context.Background(), sim.Config{Ticks: cfg.Ticks, SampleEvery: cfg.SampleEvery})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cfg, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := runSmall(t)

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Count != 4 {
		t.Errorf("expected count 4, got %d", meta.Count)
	}
	if meta.Seed != 12345 {
		t.Errorf("expected seed 12345, got %d", meta.Seed)
	}
	if meta.Metrics["containment"] != 1.0 {
		t.Errorf("expected containment 1.0, got %v", meta.Metrics["containment"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != len(result.Frames) {
		t.Fatalf("expected %d frames, got %d", len(result.Frames), len(frames))
	}
	for i := range frames {
		if frames[i].Tick != result.Frames[i].Tick {
			t.Errorf("frame %d: tick %d, want %d", i, frames[i].Tick, result.Frames[i].Tick)
		}
		for j, p := range result.Frames[i].Particles {
			if frames[i].Particles[j] != p {
				t.Fatalf("frame %d particle %d: %+v vs %+v", i, j, frames[i].Particles[j], p)
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, result := runSmall(t)
	if _, err := st.Save(cfg, result); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(cfg, result); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := runSmall(t)
	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadFrames_Corrupt(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "tick,id,x,y,vx,vy,radius,hue\n0,0,abc,1,1,1,2,3\n"
	if err := os.WriteFile(filepath.Join(runDir, "frames.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadFrames("bad"); err == nil {
		t.Error("expected parse error")
	}
}

func TestTrajectory(t *testing.T) {
	_, result := runSmall(t)

	path, err := Trajectory(result.Frames, 2)
	if err != nil {
		t.Fatalf("trajectory failed: %v", err)
	}
	if len(path) != len(result.Frames) {
		t.Fatalf("expected %d points, got %d", len(result.Frames), len(path))
	}
	if path[0] != result.Frames[0].Particles[2] {
		t.Error("trajectory does not follow particle 2")
	}

	if _, err := Trajectory(result.Frames, 9); err == nil {
		t.Error("expected error for unknown particle")
	}
}

func TestStoreSaveLoad_EmptySystem(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Count = 0
	cfg.Ticks = 20

	result, err := sim.New(cfg.NewSystem()).Run(context.Background(), sim.Config{Ticks: cfg.Ticks, SampleEvery: cfg.SampleEvery})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(result.Frames))
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatal(err)
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}

	if len(frames) != len(result.Frames) {
		t.Fatalf("expected %d frames, got %d", len(result.Frames), len(frames))
	}
	for i, fr := range frames {
		if fr.Tick != result.Frames[i].Tick {
			t.Errorf("frame %d: tick %d, want %d", i, fr.Tick, result.Frames[i].Tick)
		}
		if len(fr.Particles) != 0 {
			t.Errorf("frame %d: expected no particles, got %d", i, len(fr.Particles))
		}
	}
}
