package simulator

import "testing"

func TestGenerateSteps_DefaultProgram(t *testing.T) {
	steps := GenerateSteps(DefaultProgram)

	wantLines := []int{12, 13, 14, 17, 18}
	if len(steps) != len(wantLines) {
		t.Fatalf("expected %d steps, got %d", len(wantLines), len(steps))
	}
	for i, line := range wantLines {
		if steps[i].LineNumber != line {
			t.Fatalf("step %d: expected line %d, got %d", i, line, steps[i].LineNumber)
		}
	}

	first := steps[0]
	if len(first.Variables) != 3 || len(first.Stack) != 3 || len(first.Heap) != 0 {
		t.Fatalf("unexpected first step: %+v", first)
	}
	if first.Variables[0].Name != "age" || first.Variables[0].Address != "0x1006" || first.Variables[0].Value != "25" {
		t.Fatalf("unexpected age variable: %+v", first.Variables[0])
	}
	if first.Variables[1].Address != "0x2007" || first.Variables[1].Value != `"John"` {
		t.Fatalf("unexpected name variable: %+v", first.Variables[1])
	}

	last := steps[4]
	if len(last.Variables) != 4 {
		t.Fatalf("expected 4 variables in last step, got %d", len(last.Variables))
	}
	birth := last.Variables[3]
	if birth.Name != "birthYear" || birth.Address != "0x4010" || birth.Value != "1999" || birth.Scope != ScopeStack {
		t.Fatalf("unexpected birthYear variable: %+v", birth)
	}
}

func TestGenerateSteps_SnapshotsAreIndependent(t *testing.T) {
	steps := GenerateSteps(DefaultProgram)
	steps[0].Variables[0].Value = "changed"

	if steps[1].Variables[0].Value != "25" {
		t.Fatalf("steps share variable storage")
	}
}

func TestGenerateSteps_NoOutput(t *testing.T) {
	steps := GenerateSteps("int main() { return 0; }")
	if steps == nil || len(steps) != 0 {
		t.Fatalf("expected empty steps, got %v", steps)
	}
}

func TestErrorLine(t *testing.T) {
	tests := []struct {
		stderr string
		line   int
		ok     bool
	}{
		{"prog.cpp:5:10: error: expected ';'", 5, true},
		{"main.cpp:12:1: error: 'x' was not declared", 12, true},
		{"/tmp/abc/solution.cpp:7:3: warning\nprog.cpp:9:1: error", 7, true},
		{"Segmentation fault", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		line, ok := ErrorLine(tt.stderr)
		if line != tt.line || ok != tt.ok {
			t.Fatalf("ErrorLine(%q) = %d, %v; expected %d, %v", tt.stderr, line, ok, tt.line, tt.ok)
		}
	}
}

func TestAnalyze(t *testing.T) {
	resp := Analyze(DefaultProgram, "prog.cpp:13:5: error: boom")
	if resp.ErrorLine == nil || *resp.ErrorLine != 13 {
		t.Fatalf("unexpected error line: %v", resp.ErrorLine)
	}
	if len(resp.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(resp.Steps))
	}

	if Analyze(DefaultProgram, "").ErrorLine != nil {
		t.Fatalf("expected nil error line")
	}
}
