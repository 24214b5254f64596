package schedule

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"imgpack/internal/executer"
)

const (

	// Binary used to queue deferred jobs.
	atBinary = "at"

	// How far in the future deferred commands run.
	deferDelay = 24 * time.Hour

	// Layouts for the two time arguments at(1) accepts on its command line.
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// Matches the job number in at's confirmation output ("job 42 at ...").
var jobPattern = regexp.MustCompile(`job (\d+)`)

// Queues commands for deferred execution through at(1).
type Scheduler struct {
	exec executer.Executer
	now  func() time.Time
}

// Creates a scheduler backed by the host's at daemon.
//
// A nil exec installs the default os/exec-backed implementation.
func New(exec executer.Executer) *Scheduler {
	if exec == nil {
		exec = executer.New()
	}
	return &Scheduler{
		exec: exec,
		now:  time.Now,
	}
}

// Queues command to run roughly a day from now and returns the at job
// number.
//
// The command is piped to at's stdin while the execution time is passed as
// arguments, exactly as "echo cmd | at HH:MM YYYY-MM-DD" would. at prints
// its confirmation on stderr; when the job number cannot be found there the
// job is still considered queued and an empty number is returned.
func (s *Scheduler) Defer(ctx context.Context, command string) (string, error) {
	when := s.now().Add(deferDelay)

	res, err := s.exec.ExecuteInput(ctx, strings.NewReader(command+"\n"),
		atBinary, when.Format(clockLayout), when.Format(dateLayout))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSchedule, err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%w: at exited with code %d (%s)", ErrSchedule, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	job := parseJobNumber(res.Stderr + res.Stdout)
	if job == "" {
		log.Debugf("at accepted the job but reported no number: %q", res.Stderr)
	}
	return job, nil
}

// Extracts the job number from at's confirmation output, returning an empty
// string when none is present.
func parseJobNumber(out string) string {
	if m := jobPattern.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return ""
}
