package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRunFileFixtures(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{"hello.json", "Hello, world!\n"},
		{"for_step.json", "-1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			path := filepath.Join("..", "..", "..", "examples", tc.file)
			var out bytes.Buffer
			if err := runFile(&out, path, nil, false); err != nil {
				t.Fatalf("runFile(%s): %v", tc.file, err)
			}
			if out.String() != tc.want {
				t.Errorf("output = %q, want %q", out.String(), tc.want)
			}
		})
	}
}

func TestRunFileMissing(t *testing.T) {
	var out bytes.Buffer
	err := runFile(&out, filepath.Join(os.TempDir(), "does-not-exist.json"), nil, false)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
