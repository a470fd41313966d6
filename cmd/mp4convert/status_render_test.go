package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"mp4convert/internal/convert"
	"mp4convert/internal/deps"
	"mp4convert/internal/preflight"
)

func TestRenderStatusLinePlain(t *testing.T) {
	got := renderStatusLine("Transcoder", statusOK, "/usr/bin/ffmpeg", false)
	want := "  Transcoder:          [OK] /usr/bin/ffmpeg"
	if got != want {
		t.Fatalf("renderStatusLine = %q, want %q", got, want)
	}
}

func TestRenderStatusLineColorized(t *testing.T) {
	got := renderStatusLine("Search root", statusError, "missing", true)
	if !strings.HasPrefix(got, "\x1b[31m") || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected red wrapped line, got %q", got)
	}
}

func TestJobStatusByOutcome(t *testing.T) {
	job := convert.Job{Source: "/in/a.avi", Destination: "/out/a.mp4"}
	cases := []struct {
		name    string
		result  convert.Result
		kind    statusKind
		message string
	}{
		{"converted", convert.Result{Job: job, Outcome: convert.OutcomeConverted}, statusOK, "saved at /out/a.mp4"},
		{"skipped", convert.Result{Job: job, Outcome: convert.OutcomeSkipped}, statusWarn, "skipped, source is not a file"},
		{"failed", convert.Result{Job: job, Outcome: convert.OutcomeFailed, Err: errors.New("exit status 1")}, statusError, "exit status 1"},
		{"failed without error", convert.Result{Job: job, Outcome: convert.OutcomeFailed}, statusError, "conversion failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, kind, message := jobStatus(3, tc.result)
			if label != "3. a.avi" || kind != tc.kind || message != tc.message {
				t.Fatalf("jobStatus = (%q, %v, %q)", label, kind, message)
			}
		})
	}
}

func TestDepAndCheckStatus(t *testing.T) {
	if kind, msg := depStatus(deps.Status{Available: true, Resolved: "/bin/ffmpeg"}); kind != statusOK || msg != "/bin/ffmpeg" {
		t.Fatalf("available dep = (%v, %q)", kind, msg)
	}
	if kind, _ := depStatus(deps.Status{Optional: true, Detail: "gone"}); kind != statusWarn {
		t.Fatalf("optional missing dep kind = %v", kind)
	}
	if kind, _ := depStatus(deps.Status{Detail: "gone"}); kind != statusError {
		t.Fatalf("required missing dep kind = %v", kind)
	}
	if checkStatus(preflight.Result{Passed: false}) != statusError {
		t.Fatal("failed check should render as error")
	}
}

func TestWriteSectionPlain(t *testing.T) {
	var buf bytes.Buffer
	writeSection(&buf, " Dependencies ", false)
	if buf.String() != "== Dependencies ==\n" {
		t.Fatalf("writeSection = %q", buf.String())
	}
}
