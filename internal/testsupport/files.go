package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteMedia creates a placeholder media file at path together with the
// hidden ffprobe fixture the WithMediaStubs probe prints for it.
func WriteMedia(t testing.TB, path, probeJSON string) {
	t.Helper()

	WriteFile(t, path, 64)
	if err := os.WriteFile(ProbeFixturePath(path), []byte(probeJSON), 0o644); err != nil {
		t.Fatalf("write probe fixture for %s: %v", path, err)
	}
}

// ProbeFixturePath returns the hidden fixture location for a media path.
func ProbeFixturePath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".probe.json")
}
