package schedule

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"imgpack/internal/executer"
)

// Captures the single invocation a Defer call makes.
type fakeExecuter struct {
	name   string
	args   []string
	stdin  string
	result *executer.Result
	err    error
}

func (f *fakeExecuter) Execute(_ context.Context, name string, args ...string) (*executer.Result, error) {
	return f.capture(nil, name, args)
}

func (f *fakeExecuter) ExecuteStream(_ context.Context, _ io.Writer, name string, args ...string) (*executer.Result, error) {
	return f.capture(nil, name, args)
}

func (f *fakeExecuter) ExecuteInput(_ context.Context, r io.Reader, name string, args ...string) (*executer.Result, error) {
	return f.capture(r, name, args)
}

func (f *fakeExecuter) capture(r io.Reader, name string, args []string) (*executer.Result, error) {
	f.name = name
	f.args = args
	if r != nil {
		data, _ := io.ReadAll(r)
		f.stdin = string(data)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &executer.Result{}, nil
}

func testScheduler(fake *fakeExecuter, now time.Time) *Scheduler {
	return &Scheduler{
		exec: fake,
		now:  func() time.Time { return now },
	}
}

func TestDefer(t *testing.T) {
	fake := &fakeExecuter{result: &executer.Result{
		Stderr: "warning: commands will be executed using /bin/sh\njob 42 at Sat Mar 16 09:30:00 2024\n",
	}}
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)

	job, err := testScheduler(fake, now).Defer(context.Background(), "docker rmi nginx:latest")
	if err != nil {
		t.Fatalf("Defer: %v", err)
	}

	if job != "42" {
		t.Errorf("job = %q, want %q", job, "42")
	}
	if fake.name != "at" {
		t.Errorf("binary = %q, want at", fake.name)
	}
	if len(fake.args) != 2 || fake.args[0] != "09:30" || fake.args[1] != "2024-03-16" {
		t.Errorf("args = %v, want [09:30 2024-03-16]", fake.args)
	}
	if want := "docker rmi nginx:latest\n"; fake.stdin != want {
		t.Errorf("stdin = %q, want %q", fake.stdin, want)
	}
}

func TestDeferCrossesMidnight(t *testing.T) {
	fake := &fakeExecuter{result: &executer.Result{Stderr: "job 1 at Tue Jan  2 23:50:00 2024\n"}}
	now := time.Date(2024, 1, 1, 23, 50, 0, 0, time.Local)

	if _, err := testScheduler(fake, now).Defer(context.Background(), "docker rmi app:1"); err != nil {
		t.Fatalf("Defer: %v", err)
	}

	if fake.args[1] != "2024-01-02" {
		t.Errorf("date arg = %q, want 2024-01-02", fake.args[1])
	}
}

func TestDeferNoJobNumber(t *testing.T) {
	fake := &fakeExecuter{result: &executer.Result{Stderr: "queued\n"}}

	job, err := testScheduler(fake, time.Now()).Defer(context.Background(), "docker rmi app:1")
	if err != nil {
		t.Fatalf("Defer: %v", err)
	}
	if job != "" {
		t.Errorf("job = %q, want empty", job)
	}
}

func TestDeferFailure(t *testing.T) {
	fake := &fakeExecuter{result: &executer.Result{ExitCode: 1, Stderr: "at: cannot open lockfile\n"}}

	_, err := testScheduler(fake, time.Now()).Defer(context.Background(), "docker rmi app:1")
	if !errors.Is(err, ErrSchedule) {
		t.Fatalf("err = %v, want ErrSchedule", err)
	}
	if !strings.Contains(err.Error(), "lockfile") {
		t.Errorf("error %q does not carry at's stderr", err)
	}
}

func TestDeferMissingBinary(t *testing.T) {
	fake := &fakeExecuter{err: errors.New("exec: \"at\": executable file not found in $PATH")}

	if _, err := testScheduler(fake, time.Now()).Defer(context.Background(), "docker rmi app:1"); !errors.Is(err, ErrSchedule) {
		t.Fatalf("err = %v, want ErrSchedule", err)
	}
}

func TestParseJobNumber(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{name: "standard confirmation", out: "job 7 at Sat Mar 16 09:30:00 2024", want: "7"},
		{name: "with shell warning", out: "warning: commands will be executed using /bin/sh\njob 123 at ...", want: "123"},
		{name: "no job line", out: "something else entirely", want: ""},
		{name: "empty", out: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseJobNumber(tt.out); got != tt.want {
				t.Errorf("parseJobNumber(%q) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}
