package judge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

const (
	DefaultMaxAttempts  = 30
	DefaultPollInterval = time.Second

	NotConfiguredMessage = "Code execution service is not configured. Set JUDGE0_API_KEY to enable remote execution."
)

var ErrEmptyCode = errors.New("code is required")

type Runner struct {
	client       Client
	configured   bool
	maxAttempts  int
	pollInterval time.Duration
}

type Option func(*Runner)

func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.pollInterval = d
		}
	}
}

// NewRunner builds a runner. configured reports whether a judge credential is present;
// without one every Execute returns the not-configured result.
func NewRunner(client Client, configured bool, opts ...Option) *Runner {
	r := &Runner{
		client:       client,
		configured:   configured,
		maxAttempts:  DefaultMaxAttempts,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute submits code to the judge and waits for a terminal status. The only error
// it returns is ErrEmptyCode; every other failure is reported inside the result.
func (r *Runner) Execute(ctx context.Context, code string) (result *types.ExecutionResult, err error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyCode
	}

	if !r.configured {
		return failure(NotConfiguredMessage), nil
	}

	defer func() {
		if p := recover(); p != nil {
			log.Printf("Execution panicked: %v", p)
			result, err = failure(fmt.Sprintf("Execution error: %v", p)), nil
		}
	}()

	return r.run(ctx, code), nil
}

func (r *Runner) run(ctx context.Context, code string) *types.ExecutionResult {
	token, err := r.client.CreateSubmission(ctx, code)
	if err != nil {
		log.Printf("Failed to create submission: %v", err)
		return transportFailure("Failed to create submission", err)
	}
	log.Printf("Created submission %s", token)

	var terminal *Submission
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		submission, err := r.client.GetSubmission(ctx, token)
		if err != nil {
			log.Printf("Failed to poll submission %s: %v", token, err)
			return transportFailure("Failed to get submission result", err)
		}

		if IsTerminal(submission.Status.ID) {
			terminal = submission
			break
		}
		if attempt == r.maxAttempts {
			break
		}
		if err := wait(ctx, r.pollInterval); err != nil {
			return failure("Execution error: " + err.Error())
		}
	}

	if terminal == nil {
		log.Printf("Submission %s did not finish after %d attempts", token, r.maxAttempts)
		return failure(fmt.Sprintf("Execution timed out after %d polling attempts", r.maxAttempts))
	}

	log.Printf("Submission %s finished with status %d", token, terminal.Status.ID)
	result := Normalize(terminal)
	return &result
}

func transportFailure(op string, err error) *types.ExecutionResult {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return failure(fmt.Sprintf("%s: %s", op, statusErr.Error()))
	}
	return failure("Execution error: " + err.Error())
}

func failure(stderr string) *types.ExecutionResult {
	return &types.ExecutionResult{Stderr: stderr, ExitCode: 1}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
