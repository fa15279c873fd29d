package simulator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

const (
	ScopeStack = "stack"
	ScopeHeap  = "heap"
)

// DefaultProgram is the example the memory view is built around.
const DefaultProgram = `#include <iostream>
#include <string>
using namespace std;

int main() {
    // Declare variables
    int age = 25;
    string name = "John";
    double height = 1.75;

    // Print information
    cout << "Name: " << name << endl;
    cout << "Age: " << age << endl;
    cout << "Height: " << height << "m" << endl;

    // Calculate and display
    int birthYear = 2024 - age;
    cout << "Birth year: " << birthYear << endl;

    return 0;
}`

type declaration struct {
	pattern string
	name    string
	value   string
	typ     string
	base    int
}

// Checked in order; the first match on a line wins.
var declarations = []declaration{
	{pattern: "int age = 25", name: "age", value: "25", typ: "int", base: 0x1000},
	{pattern: `string name = "John"`, name: "name", value: `"John"`, typ: "string", base: 0x2000},
	{pattern: "double height = 1.75", name: "height", value: "1.75", typ: "double", base: 0x3000},
	{pattern: "int birthYear = 2024 - age", name: "birthYear", value: "1999", typ: "int", base: 0x4000},
}

var errorLocation = regexp.MustCompile(`(?:prog\.cpp|main\.cpp|\.cpp):(\d+):`)

// GenerateSteps produces the canned memory walkthrough for code. Only the
// declarations of DefaultProgram are recognized; other code yields steps
// for its output lines with whatever variables were seen so far.
func GenerateSteps(code string) []types.ExecutionStep {
	steps := make([]types.ExecutionStep, 0)
	var variables []types.MemoryVariable

	for i, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)

		for _, d := range declarations {
			if strings.Contains(line, d.pattern) {
				variables = append(variables, types.MemoryVariable{
					Name:    d.name,
					Value:   d.value,
					Type:    d.typ,
					Address: fmt.Sprintf("0x%x", d.base+i),
					Scope:   ScopeStack,
				})
				break
			}
		}

		if strings.Contains(line, "cout") || strings.Contains(line, "int birthYear") {
			steps = append(steps, snapshot(i+1, variables))
		}
	}
	return steps
}

func snapshot(lineNumber int, variables []types.MemoryVariable) types.ExecutionStep {
	step := types.ExecutionStep{
		LineNumber: lineNumber,
		Variables:  append([]types.MemoryVariable{}, variables...),
		Stack:      []types.MemoryVariable{},
		Heap:       []types.MemoryVariable{},
	}
	for _, v := range variables {
		switch v.Scope {
		case ScopeStack:
			step.Stack = append(step.Stack, v)
		case ScopeHeap:
			step.Heap = append(step.Heap, v)
		}
	}
	return step
}

// ErrorLine returns the line number of the first compiler diagnostic in stderr.
func ErrorLine(stderr string) (int, bool) {
	match := errorLocation.FindStringSubmatch(stderr)
	if match == nil {
		return 0, false
	}
	line, err := strconv.Atoi(match[1])
	if err != nil || line <= 0 {
		return 0, false
	}
	return line, true
}

func Analyze(code, stderr string) types.AnalyzeResponse {
	resp := types.AnalyzeResponse{Steps: GenerateSteps(code)}
	if line, ok := ErrorLine(stderr); ok {
		resp.ErrorLine = &line
	}
	return resp
}
