package judge

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		submission *Submission
		want       types.ExecutionResult
	}{
		{
			name: "accepted",
			submission: &Submission{
				Status:   StatusField{ID: StatusAccepted},
				Stdout:   strPtr("OK"),
				ExitCode: intPtr(0),
				Time:     strPtr("0.25"),
				Memory:   intPtr(3120),
			},
			want: types.ExecutionResult{Stdout: "OK", ExitCode: 0, ExecutionTime: 250, Memory: 3120},
		},
		{
			name:       "accepted with nothing reported",
			submission: &Submission{Status: StatusField{ID: StatusAccepted}},
			want:       types.ExecutionResult{},
		},
		{
			name:       "wrong answer defaults",
			submission: &Submission{Status: StatusField{ID: StatusWrongAnswer}, Stdout: strPtr("41")},
			want:       types.ExecutionResult{Stdout: "41", Stderr: "Wrong Answer", ExitCode: 1},
		},
		{
			name: "wrong answer never reports exit code 0",
			submission: &Submission{
				Status:   StatusField{ID: StatusWrongAnswer},
				Stderr:   strPtr("mismatch"),
				ExitCode: intPtr(0),
			},
			want: types.ExecutionResult{Stderr: "mismatch", ExitCode: 1},
		},
		{
			name:       "runtime error with exit code 0",
			submission: &Submission{Status: StatusField{ID: StatusRuntimeError}, ExitCode: intPtr(0)},
			want:       types.ExecutionResult{Stderr: "Runtime Error", ExitCode: 1},
		},
		{
			name:       "unknown status with exit code 0",
			submission: &Submission{Status: StatusField{ID: 11}, ExitCode: intPtr(0)},
			want:       types.ExecutionResult{Stderr: "Unknown Error (status 11)", ExitCode: 1},
		},
		{
			name: "time limit exceeded ignores remote fields",
			submission: &Submission{
				Status: StatusField{ID: StatusTimeLimitExceeded},
				Stdout: strPtr("partial"),
				Time:   strPtr("5.0"),
				Memory: intPtr(1024),
			},
			want: types.ExecutionResult{Stderr: "Time Limit Exceeded", ExitCode: 1},
		},
		{
			name: "compilation error uses compile output",
			submission: &Submission{
				Status:        StatusField{ID: StatusCompilationError},
				CompileOutput: strPtr("error: X"),
			},
			want: types.ExecutionResult{Stderr: "error: X", ExitCode: 1},
		},
		{
			name:       "compilation error without output",
			submission: &Submission{Status: StatusField{ID: StatusCompilationError}, CompileOutput: strPtr("")},
			want:       types.ExecutionResult{Stderr: "Compilation Error", ExitCode: 1},
		},
		{
			name: "runtime error",
			submission: &Submission{
				Status:   StatusField{ID: StatusRuntimeError},
				Stdout:   strPtr("before crash\n"),
				ExitCode: intPtr(139),
				Time:     strPtr("0.002"),
			},
			want: types.ExecutionResult{Stdout: "before crash\n", Stderr: "Runtime Error", ExitCode: 139, ExecutionTime: 2},
		},
		{
			name:       "unknown status",
			submission: &Submission{Status: StatusField{ID: 13}},
			want:       types.ExecutionResult{Stderr: "Unknown Error (status 13)", ExitCode: 1},
		},
		{
			name:       "unparsable time",
			submission: &Submission{Status: StatusField{ID: StatusAccepted}, Time: strPtr("fast")},
			want:       types.ExecutionResult{},
		},
		{
			name:       "NaN time",
			submission: &Submission{Status: StatusField{ID: StatusAccepted}, Time: strPtr("NaN")},
			want:       types.ExecutionResult{},
		},
		{
			name:       "infinite time",
			submission: &Submission{Status: StatusField{ID: StatusAccepted}, Time: strPtr("Inf")},
			want:       types.ExecutionResult{},
		},
		{
			name:       "infinity spelled out",
			submission: &Submission{Status: StatusField{ID: StatusRuntimeError}, ExitCode: intPtr(1), Time: strPtr("infinity")},
			want:       types.ExecutionResult{Stderr: "Runtime Error", ExitCode: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.submission)
			if got != tt.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_EncodesAsJSON(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-Inf", "+infinity"} {
		got := Normalize(&Submission{Status: StatusField{ID: StatusAccepted}, Time: strPtr(v)})
		if _, err := json.Marshal(got); err != nil {
			t.Fatalf("time %q: result does not encode: %v", v, err)
		}
	}
}

func TestNormalize_Pure(t *testing.T) {
	submission := &Submission{
		Status: StatusField{ID: StatusRuntimeError},
		Stderr: strPtr("segfault"),
		Time:   strPtr("0.01"),
		Memory: intPtr(900),
	}
	before := *submission

	first := Normalize(submission)
	second := Normalize(submission)

	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(before, *submission) {
		t.Fatalf("submission was mutated")
	}
}

func TestIsTerminal(t *testing.T) {
	for id, want := range map[int]bool{0: false, StatusInQueue: false, StatusProcessing: false, StatusAccepted: true, 14: true} {
		if got := IsTerminal(id); got != want {
			t.Fatalf("IsTerminal(%d) = %v, want %v", id, got, want)
		}
	}
}
