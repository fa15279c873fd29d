package types

import "time"

type ExecuteRequest struct {
	Code string `json:"code" validate:"notblank"`
}

// ExecutionResult is always fully populated, whichever path produced it.
type ExecutionResult struct {
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	ExitCode      int     `json:"exitCode"`
	ExecutionTime float64 `json:"executionTime"`
	Memory        int     `json:"memory"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TutorRequest struct {
	Message string        `json:"message" validate:"notblank"`
	History []ChatMessage `json:"history"`
}

type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type TutorResponse struct {
	Content    string      `json:"content"`
	CodeBlocks []CodeBlock `json:"codeBlocks"`
}

type Module struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	Topics        []string `json:"topics" yaml:"topics"`
	XPReward      int      `json:"xpReward" yaml:"xp_reward"`
	EstimatedTime int      `json:"estimatedTime" yaml:"estimated_time"`
}

type ModuleExample struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Code        string `json:"code" yaml:"code"`
}

type ModuleUse struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type ModuleDetail struct {
	Module       `yaml:",inline"`
	Introduction string          `json:"introduction" yaml:"introduction"`
	Examples     []ModuleExample `json:"examples" yaml:"examples"`
	Uses         []ModuleUse     `json:"uses" yaml:"uses"`
}

type AnalyzeRequest struct {
	Code   string `json:"code" validate:"notblank"`
	Stderr string `json:"stderr"`
}

type MemoryVariable struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Type    string `json:"type"`
	Address string `json:"address"`
	Scope   string `json:"scope"`
}

type ExecutionStep struct {
	LineNumber int              `json:"lineNumber"`
	Variables  []MemoryVariable `json:"variables"`
	Stack      []MemoryVariable `json:"stack"`
	Heap       []MemoryVariable `json:"heap"`
}

type AnalyzeResponse struct {
	Steps     []ExecutionStep `json:"steps"`
	ErrorLine *int            `json:"errorLine"`
}

type ModuleCompletion struct {
	ModuleID    string    `json:"moduleId"`
	XPReward    int       `json:"xpReward"`
	CompletedAt time.Time `json:"completedAt"`
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type Progress struct {
	UserID           string             `json:"userId"`
	XP               int                `json:"xp"`
	Level            int                `json:"level"`
	LevelProgress    int                `json:"levelProgress"`
	CompletedModules []ModuleCompletion `json:"completedModules"`
	Achievements     []Achievement      `json:"achievements"`
}

type ExecutionEvent struct {
	ExecutionID   string    `json:"execution_id"`
	Outcome       string    `json:"outcome"`
	ExitCode      int       `json:"exit_code"`
	ExecutionTime float64   `json:"execution_time"`
	Memory        int       `json:"memory"`
	CreatedAt     time.Time `json:"created_at"`
}
