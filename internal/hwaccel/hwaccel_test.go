package hwaccel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	amf := filepath.Join(dir, "libamfrt64.so")
	cuda := filepath.Join(dir, "libcuda.so")
	missing := filepath.Join(dir, "missing.so")

	if got := (Detector{AMFLibraries: []string{missing}, CUDALibraries: []string{missing}}).Detect(); got != ModeNone {
		t.Fatalf("expected none without libraries, got %s", got)
	}

	if err := os.WriteFile(cuda, []byte("x"), 0o644); err != nil {
		t.Fatalf("write cuda stub: %v", err)
	}
	d := Detector{AMFLibraries: []string{amf}, CUDALibraries: []string{cuda}}
	if got := d.Detect(); got != ModeCUDA {
		t.Fatalf("expected cuda, got %s", got)
	}

	if err := os.WriteFile(amf, []byte("x"), 0o644); err != nil {
		t.Fatalf("write amf stub: %v", err)
	}
	if got := d.Detect(); got != ModeAMF {
		t.Fatalf("expected amf to win over cuda, got %s", got)
	}
}

func TestResolve(t *testing.T) {
	d := Detector{}
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeNone, false},
		{"auto", ModeNone, false},
		{"none", ModeNone, false},
		{"AMF", ModeAMF, false},
		{"cuda", ModeCUDA, false},
		{"nvenc", ModeCUDA, false},
		{"qsv", "", true},
	}
	for _, tt := range tests {
		got, err := d.Resolve(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
