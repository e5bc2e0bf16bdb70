//go:build !baremetal

package sleep

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "retained.yaml")
	m := NewFileMemory(path)

	if v, err := m.Load(); err != nil || v != 0 {
		t.Fatalf("missing file: expected 0, got %d (err=%v)", v, err)
	}
	if err := m.Store(-42); err != nil {
		t.Fatalf("Store() err=%v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if string(data) != "status: -42\n" {
		t.Errorf("unexpected file content %q", data)
	}

	// A second instance sees the value, like a process started after a wake.
	if v, err := NewFileMemory(path).Load(); err != nil || v != -42 {
		t.Errorf("expected -42, got %d (err=%v)", v, err)
	}
}

func TestFileMemoryCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retained.yaml")
	if err := os.WriteFile(path, []byte("status: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileMemory(path).Load(); err == nil {
		t.Error("expected an error for a corrupt file")
	}
}

func TestBindingWithFileMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retained.yaml")
	sim := NewSimulator(0)

	b, err := New(sim, NewFileMemory(path), 3)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if v, _ := b.Status(); v != 3 {
		t.Fatalf("expected cold boot status 3, got %d", v)
	}
	b.SetStatus(11)
	deepSleep(t, func() { b.EnterDeepSleep(0) })

	b, err = New(sim, NewFileMemory(path), 3)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if v, _ := b.Status(); v != 11 {
		t.Errorf("expected 11 after timer wake, got %d", v)
	}
}
