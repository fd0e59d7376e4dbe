package readfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadLinesNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  []string
	}{
		{
			name: "empty file",
			in:   "",
			out:  []string{""},
		},
		{
			name: "unix newlines",
			in:   "one\ntwo\n",
			out:  []string{"one", "two", ""},
		},
		{
			name: "windows newlines",
			in:   "one\r\ntwo\r\n",
			out:  []string{"one", "two", ""},
		},
		{
			name: "standalone carriage returns preserved",
			in:   "a\rb\n\r\n",
			out:  []string{"a\rb", "", ""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "input.txt")
			if err := os.WriteFile(path, []byte(tc.in), 0o644); err != nil {
				t.Fatalf("write temp file: %v", err)
			}

			got, err := ReadLinesNormalized(path)
			if err != nil {
				t.Fatalf("ReadLinesNormalized: %v", err)
			}
			if len(got) != len(tc.out) {
				t.Fatalf("lines len: got %d want %d", len(got), len(tc.out))
			}
			for i := range got {
				if got[i] != tc.out[i] {
					t.Fatalf("line %d: got %q want %q", i, got[i], tc.out[i])
				}
			}
		})
	}
}

func TestReadPrefixIntoTruncatesAndReportsSize(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "big.txt")
	content := make([]byte, 4096)
	for i := range content {
		content[i] = byte('a' + i%26)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	buf := make([]byte, 1024)
	n, size, err := ReadPrefixInto(path, buf)
	if err != nil {
		t.Fatalf("ReadPrefixInto: %v", err)
	}
	if n != 1024 {
		t.Fatalf("n = %d, want 1024", n)
	}
	if size != int64(len(content)) {
		t.Fatalf("size = %d, want %d", size, len(content))
	}
	if string(buf) != string(content[:1024]) {
		t.Fatalf("prefix mismatch")
	}
}

func TestReadPrefixIntoSmallFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "small.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	buf := make([]byte, 1024)
	n, size, err := ReadPrefixInto(path, buf)
	if err != nil {
		t.Fatalf("ReadPrefixInto: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if size != 2 {
		t.Fatalf("size = %d, want 2", size)
	}
}
