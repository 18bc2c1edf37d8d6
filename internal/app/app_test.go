package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"checksums/internal/buildinfo"
)

func TestRunVersionReturnsZeroAndPrintsExpectedLines(t *testing.T) {
	previousVersion, previousCommit, previousDate := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = previousVersion, previousCommit, previousDate
	})
	buildinfo.Version = "v0.0.1"
	buildinfo.Commit = "deadbeef"
	buildinfo.Date = "2026-02-01T00:00:00Z"

	var stdout, stderr bytes.Buffer
	exitCode := NewWithWriters(&stdout, &stderr).Run([]string{"version"})
	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d; stderr=%q", exitCode, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d; output=%q", len(lines), stdout.String())
	}

	expectedPrefixes := []string{"Checksums ", "commit: ", "built:  ", "go:     ", "os/arch:"}
	for i, prefix := range expectedPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Fatalf("line %d expected prefix %q, got %q", i+1, prefix, lines[i])
		}
	}
}

func TestRunSumPrintsDigests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abc.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	exitCode := NewWithWriters(&stdout, &stderr).Run([]string{"sum", path})
	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d; stderr=%q", exitCode, stderr.String())
	}
	const sha256abc = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if !strings.Contains(stdout.String(), "SHA256  "+sha256abc) {
		t.Fatalf("expected sha256 line in output, got %q", stdout.String())
	}
}

func TestRunUsageErrorExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := NewWithWriters(&stdout, &stderr).Run([]string{"sum"}); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if code := NewWithWriters(&stdout, &stderr).Run([]string{"bogus"}); code != 2 {
		t.Fatalf("expected exit code 2 for unknown command, got %d", code)
	}
	if code := NewWithWriters(&stdout, &stderr).Run([]string{"sum", "--no-such-flag", "x"}); code != 2 {
		t.Fatalf("expected exit code 2 for unknown flag, got %d", code)
	}
}

func TestRunSumTimeoutExitsInterrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Truncate(path, 64<<20); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	args := []string{"sum", "--chunk-size", "1", "--timeout", "100ms", "--stats", path}
	if code := NewWithWriters(&stdout, &stderr).Run(args); code != 130 {
		t.Fatalf("expected exit code 130, got %d; stderr=%q", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no digests on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "checksums_live_tokens 0") {
		t.Fatalf("expected every token freed, stderr=%q", stderr.String())
	}
}
