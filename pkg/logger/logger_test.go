package logger

import (
	"fmt"
	"testing"
)

type recordingInstance struct {
	lines []string
}

func (r *recordingInstance) record(level, message string, keyvals ...any) {
	r.lines = append(r.lines, fmt.Sprintf("%s %s %v", level, message, keyvals))
}

func (r *recordingInstance) Debug(m string, kv ...any) { r.record("DEBUG", m, kv...) }
func (r *recordingInstance) Info(m string, kv ...any)  { r.record("INFO", m, kv...) }
func (r *recordingInstance) Warn(m string, kv ...any)  { r.record("WARN", m, kv...) }
func (r *recordingInstance) Error(m string, kv ...any) { r.record("ERROR", m, kv...) }

func TestDispatchesToAllInstances(t *testing.T) {
	a := &recordingInstance{}
	b := &recordingInstance{}
	Init(a, b)
	t.Cleanup(func() { singleton = nil })

	Info("[Graph] Progress", "processed", 10)
	Error("read failed", "path", "x.pdf")

	want := []string{
		"INFO [Graph] Progress [processed 10]",
		"ERROR read failed [path x.pdf]",
	}
	for _, inst := range []*recordingInstance{a, b} {
		if len(inst.lines) != len(want) {
			t.Fatalf("got %d lines, want %d: %v", len(inst.lines), len(want), inst.lines)
		}
		for i := range want {
			if inst.lines[i] != want[i] {
				t.Fatalf("line %d got = %q, want %q", i, inst.lines[i], want[i])
			}
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	singleton = nil
	Info("dropped")
	Debug("dropped")
}
