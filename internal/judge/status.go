package judge

import (
	"fmt"
	"math"
	"strconv"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

// Judge status ids. Anything above StatusProcessing is terminal.
const (
	StatusInQueue           = 1
	StatusProcessing        = 2
	StatusAccepted          = 3
	StatusWrongAnswer       = 4
	StatusTimeLimitExceeded = 5
	StatusCompilationError  = 6
	StatusRuntimeError      = 7
)

func IsTerminal(statusID int) bool {
	return statusID > StatusProcessing
}

type resultBuilder func(s *Submission) types.ExecutionResult

var builders = map[int]resultBuilder{
	StatusAccepted: func(s *Submission) types.ExecutionResult {
		return measured(s, text(s.Stdout, ""), text(s.Stderr, ""), exitCode(s.ExitCode, 0))
	},
	StatusWrongAnswer: func(s *Submission) types.ExecutionResult {
		return measured(s, text(s.Stdout, ""), text(s.Stderr, "Wrong Answer"), failureExitCode(s.ExitCode))
	},
	StatusTimeLimitExceeded: func(s *Submission) types.ExecutionResult {
		return types.ExecutionResult{Stderr: "Time Limit Exceeded", ExitCode: 1}
	},
	StatusCompilationError: func(s *Submission) types.ExecutionResult {
		return types.ExecutionResult{Stderr: text(s.CompileOutput, "Compilation Error"), ExitCode: 1}
	},
	StatusRuntimeError: func(s *Submission) types.ExecutionResult {
		return measured(s, text(s.Stdout, ""), text(s.Stderr, "Runtime Error"), failureExitCode(s.ExitCode))
	},
}

func unknownStatus(s *Submission) types.ExecutionResult {
	fallback := fmt.Sprintf("Unknown Error (status %d)", s.Status.ID)
	return measured(s, text(s.Stdout, ""), text(s.Stderr, fallback), failureExitCode(s.ExitCode))
}

// Normalize maps a terminal submission to the caller-facing result. It is pure.
func Normalize(s *Submission) types.ExecutionResult {
	if build, ok := builders[s.Status.ID]; ok {
		return build(s)
	}
	return unknownStatus(s)
}

func measured(s *Submission, stdout, stderr string, code int) types.ExecutionResult {
	return types.ExecutionResult{
		Stdout:        stdout,
		Stderr:        stderr,
		ExitCode:      code,
		ExecutionTime: millis(s.Time),
		Memory:        kilobytes(s.Memory),
	}
}

func text(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func exitCode(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// failureExitCode never reports success for a failed run.
func failureExitCode(v *int) int {
	if v == nil || *v == 0 {
		return 1
	}
	return *v
}

// millis converts the judge's decimal seconds string to milliseconds.
func millis(v *string) float64 {
	if v == nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(*v, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return math.Round(seconds*1e6) / 1e3
}

func kilobytes(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
