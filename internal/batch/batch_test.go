package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"mp4convert/internal/batch"
	"mp4convert/internal/convert"
	"mp4convert/internal/history"
	"mp4convert/internal/logging"
	"mp4convert/internal/request"
	"mp4convert/internal/testsupport"
	"mp4convert/internal/walker"
)

type recordingReporter struct {
	started  []string
	finished []convert.Outcome
}

func (r *recordingReporter) JobStarted(_ int, path string) {
	r.started = append(r.started, path)
}

func (r *recordingReporter) JobFinished(_ int, result convert.Result) {
	r.finished = append(r.finished, result.Outcome)
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) Add(context.Context, history.Record) (int64, error) {
	f.calls++
	return 0, errors.New("disk full")
}

type cancellingConverter struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingConverter) Convert(_ context.Context, job convert.Job) convert.Result {
	c.calls++
	c.cancel()
	return convert.Result{Job: job, Outcome: convert.OutcomeConverted}
}

func newConverter(fake *testsupport.FakeTranscoder) *convert.Converter {
	return convert.New(convert.Options{Binary: fake.Path, Strict: "-2"}, logging.NewNop())
}

func sortedDestinations(invocations [][]string) []string {
	var dsts []string
	for _, args := range invocations {
		dsts = append(dsts, args[len(args)-1])
	}
	slices.Sort(dsts)
	return dsts
}

func TestRunConvertsInPlace(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi", "sub/b.avi", "c.txt")
	fake := testsupport.NewFakeTranscoder(t)

	req, err := request.Request{Root: root, Suffix: "avi"}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	reporter := &recordingReporter{}
	summary, err := batch.Run(context.Background(), req, batch.Options{
		Converter: newConverter(fake),
		Reporter:  reporter,
		Logger:    logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Converted != 2 || summary.Total() != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatal("expected generated run id")
	}

	invocations := fake.Invocations(t)
	if len(invocations) != 2 {
		t.Fatalf("expected 2 transcoder runs, got %d", len(invocations))
	}
	for _, args := range invocations {
		if slices.Contains(args, "-threads") {
			t.Fatalf("did not expect -threads without a limit: %v", args)
		}
	}
	want := []string{filepath.Join(root, "a.mp4"), filepath.Join(root, "sub", "b.mp4")}
	if got := sortedDestinations(invocations); !slices.Equal(got, want) {
		t.Fatalf("destinations = %v, want %v", got, want)
	}
	if _, err := os.Stat(filepath.Join(root, "c.mp4")); !os.IsNotExist(err) {
		t.Fatalf("c.txt must not be converted, stat err=%v", err)
	}
	if len(reporter.started) != 2 || len(reporter.finished) != 2 {
		t.Fatalf("reporter saw %d starts and %d finishes", len(reporter.started), len(reporter.finished))
	}
}

func TestRunWritesToOutputDirWithThreads(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi", "sub/b.avi")
	fake := testsupport.NewFakeTranscoder(t)

	req, err := request.Request{Root: root, Suffix: "avi", OutputDir: out, Threads: 4}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := batch.Run(context.Background(), req, batch.Options{Converter: newConverter(fake)}); err != nil {
		t.Fatalf("run: %v", err)
	}

	invocations := fake.Invocations(t)
	for _, args := range invocations {
		idx := slices.Index(args, "-threads")
		if idx < 0 || args[idx+1] != "4" {
			t.Fatalf("expected -threads 4, got %v", args)
		}
	}
	want := []string{filepath.Join(out, "a.mp4"), filepath.Join(out, "b.mp4")}
	if got := sortedDestinations(invocations); !slices.Equal(got, want) {
		t.Fatalf("destinations = %v, want %v", got, want)
	}
}

func TestRunContinuesAfterTranscoderFailure(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi", "b.avi")
	fake := testsupport.NewFakeTranscoder(t, testsupport.FakeExitCode(1))

	req, err := request.Request{Root: root, Suffix: "avi"}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	summary, err := batch.Run(context.Background(), req, batch.Options{Converter: newConverter(fake)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Failed != 2 || summary.Converted != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(fake.Invocations(t)) != 2 {
		t.Fatal("expected both jobs to be attempted")
	}
}

func TestRunRecordsHistory(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi")
	fake := testsupport.NewFakeTranscoder(t)

	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	req, err := request.Request{Root: root, Suffix: "avi"}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	summary, err := batch.Run(context.Background(), req, batch.Options{
		Converter: newConverter(fake),
		Recorder:  store,
		RunID:     "run-1",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID != "run-1" {
		t.Fatalf("run id = %q", summary.RunID)
	}

	records, err := store.ByRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("by run: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Source != filepath.Join(root, "a.avi") || records[0].Outcome != convert.OutcomeConverted {
		t.Fatalf("unexpected record %+v", records[0])
	}
}

func TestRunIgnoresHistoryWriteFailures(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi", "b.avi")
	fake := testsupport.NewFakeTranscoder(t)
	recorder := &failingRecorder{}

	req, err := request.Request{Root: root, Suffix: "avi"}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	summary, err := batch.Run(context.Background(), req, batch.Options{
		Converter: newConverter(fake),
		Recorder:  recorder,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Converted != 2 || recorder.calls != 2 {
		t.Fatalf("summary=%+v recorder calls=%d", summary, recorder.calls)
	}
}

func TestRunStopsAfterCurrentJobOnCancel(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi", "b.avi", "c.avi")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conv := &cancellingConverter{cancel: cancel}

	req, err := request.Request{Root: root, Suffix: "avi"}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	summary, err := batch.Run(ctx, req, batch.Options{Converter: conv})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if conv.calls != 1 || summary.Converted != 1 {
		t.Fatalf("calls=%d summary=%+v", conv.calls, summary)
	}
}

func TestRunReturnsWalkerErrors(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi")
	fake := testsupport.NewFakeTranscoder(t)

	req := request.Request{Root: filepath.Join(root, "gone"), Suffix: "avi"}
	_, err := batch.Run(context.Background(), req, batch.Options{
		Converter: newConverter(fake),
		Walker:    walker.Options{Policy: walker.SkipAndWarn},
	})
	if err == nil {
		t.Fatal("expected error for unreadable root")
	}
	if len(fake.Invocations(t)) != 0 {
		t.Fatal("transcoder must not run")
	}
}

func TestRunRequiresConverter(t *testing.T) {
	if _, err := batch.Run(context.Background(), request.Request{Root: t.TempDir(), Suffix: "avi"}, batch.Options{}); err == nil {
		t.Fatal("expected error without converter")
	}
}

func TestFindAndConvertRejectsInvalidRequest(t *testing.T) {
	fake := testsupport.NewFakeTranscoder(t)
	cases := []struct {
		name string
		req  request.Request
		want error
	}{
		{"missing root", request.Request{Root: filepath.Join(t.TempDir(), "nope"), Suffix: "avi"}, request.ErrInvalidRoot},
		{"empty suffix", request.Request{Root: t.TempDir()}, request.ErrEmptySuffix},
		{"threads", request.Request{Root: t.TempDir(), Suffix: "avi", Threads: 10}, request.ErrThreadsOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := batch.FindAndConvert(context.Background(), tc.req, batch.Options{Converter: newConverter(fake)})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if len(fake.Invocations(t)) != 0 {
		t.Fatal("transcoder must not run for invalid requests")
	}
}

func TestFindAndConvertNoMatches(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "c.txt")
	fake := testsupport.NewFakeTranscoder(t)

	summary, err := batch.FindAndConvert(context.Background(), request.Request{Root: root, Suffix: "avi"}, batch.Options{Converter: newConverter(fake)})
	if err != nil {
		t.Fatalf("find and convert: %v", err)
	}
	if summary.Total() != 0 || len(fake.Invocations(t)) != 0 {
		t.Fatalf("expected empty run, got %+v", summary)
	}
}

func TestRunLetsRunningTranscodeFinishOnCancel(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, "a.avi", "b.avi")
	fake := testsupport.NewFakeTranscoder(t, testsupport.FakeSleep(1))

	req, err := request.Request{Root: root, Suffix: "avi"}.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(200*time.Millisecond, cancel)

	start := time.Now()
	summary, err := batch.Run(ctx, req, batch.Options{Converter: newConverter(fake)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Fatalf("running transcode was killed after %s", elapsed)
	}
	if summary.Converted != 1 || summary.Failed != 0 {
		t.Fatalf("expected the in-flight job to complete, got %+v", summary)
	}
	if n := len(fake.Invocations(t)); n != 1 {
		t.Fatalf("expected no job after cancellation, got %d runs", n)
	}
}
