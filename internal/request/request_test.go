package request

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	file := filepath.Join(root, "a.avi")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "minimal", req: Request{Root: root, Suffix: "avi"}},
		{name: "with output and threads", req: Request{Root: root, Suffix: "avi", OutputDir: out, Threads: 9}},
		{name: "missing root", req: Request{Root: filepath.Join(root, "nope"), Suffix: "avi"}, wantErr: ErrInvalidRoot},
		{name: "blank root", req: Request{Root: "  ", Suffix: "avi"}, wantErr: ErrInvalidRoot},
		{name: "root is file", req: Request{Root: file, Suffix: "avi"}, wantErr: ErrInvalidRoot},
		{name: "output is file", req: Request{Root: root, Suffix: "avi", OutputDir: file}, wantErr: ErrInvalidOutput},
		{name: "blank suffix", req: Request{Root: root, Suffix: " \t"}, wantErr: ErrEmptySuffix},
		{name: "threads too high", req: Request{Root: root, Suffix: "avi", Threads: 10}, wantErr: ErrThreadsOutOfRange},
		{name: "threads negative", req: Request{Root: root, Suffix: "avi", Threads: -1}, wantErr: ErrThreadsOutOfRange},
		{name: "root checked before suffix", req: Request{Root: file, Suffix: ""}, wantErr: ErrInvalidRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if UserMessage(err) == "" {
					t.Fatalf("expected user message for %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !filepath.IsAbs(got.Root) {
				t.Fatalf("expected absolute root, got %q", got.Root)
			}
		})
	}
}

func TestValidateMakesPathsAbsolute(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "in"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "out"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(base)

	got, err := Request{Root: "in", Suffix: "avi", OutputDir: "out"}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Root != filepath.Join(base, "in") || got.OutputDir != filepath.Join(base, "out") {
		t.Fatalf("unexpected paths: %+v", got)
	}
	if got.InPlace() {
		t.Fatal("expected output directory run")
	}
}

func TestUserMessageMatchesCLIWording(t *testing.T) {
	_, err := Request{Root: filepath.Join(t.TempDir(), "missing"), Suffix: "avi"}.Validate()
	if got := UserMessage(err); got != "Sorry we can't search that location." {
		t.Fatalf("unexpected message %q", got)
	}
	_, err = Request{Root: t.TempDir(), Suffix: ""}.Validate()
	if got := UserMessage(err); got != "You did not provide a file type!" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUserMessageIgnoresOtherErrors(t *testing.T) {
	if msg := UserMessage(errors.New("boom")); msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}
