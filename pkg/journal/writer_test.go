package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"BetForge/pkg/logger"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer f.Close()

	var out []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad journal line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestWriterDrainsOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bets.jsonl")
	w := NewWriter(path, logger.Nop())
	w.Start()

	for i := 0; i < 50; i++ {
		w.Write(map[string]interface{}{"strategy": "flat", "seq": i})
	}
	w.Stop()

	lines := readLines(t, path)
	if len(lines) != 50 {
		t.Fatalf("expected 50 journal lines, got %d", len(lines))
	}
	if lines[0]["strategy"] != "flat" {
		t.Errorf("unexpected first record: %v", lines[0])
	}
}

func TestWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bets.jsonl")

	w := NewWriter(path, logger.Nop())
	w.Start()
	w.Write(map[string]interface{}{"n": 1})
	w.Stop()

	w2 := NewWriter(path, logger.Nop())
	w2.Start()
	w2.Write(map[string]interface{}{"n": 2})
	w2.Stop()

	if lines := readLines(t, path); len(lines) != 2 {
		t.Fatalf("expected append across writers, got %d lines", len(lines))
	}
}

func TestWriterStopIdempotent(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "bets.jsonl"), logger.Nop())
	w.Start()
	w.Stop()
	w.Stop() // must not panic or hang
}

func TestWriterDropsAfterStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bets.jsonl")
	w := NewWriter(path, logger.Nop())
	w.Start()
	w.Stop()

	w.Write(map[string]interface{}{"n": 1})
	if lines := readLines(t, path); len(lines) != 0 {
		t.Fatalf("expected record after stop to be dropped, got %d lines", len(lines))
	}
}

func TestWriterFailureHook(t *testing.T) {
	failures := 0
	// unwritable destination: directory path
	w := NewWriter(t.TempDir(), logger.Nop(), WithFailureHook(func() { failures++ }))
	w.Start()
	w.Write(map[string]interface{}{"n": 1})
	w.Stop()

	if failures == 0 {
		t.Fatal("expected failure hook to fire for unwritable path")
	}
}
