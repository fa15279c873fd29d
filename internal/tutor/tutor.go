package tutor

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

const MaxHistory = 5

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const SystemPrompt = `You are a helpful C++ programming tutor for college beginners. Your role is to:

1. Explain C++ concepts in simple, beginner-friendly terms
2. Provide clear code examples with proper syntax highlighting
3. Help debug common programming issues
4. Encourage learning and experimentation
5. Use a friendly, encouraging tone

Only answer questions about C++ and general programming. Politely steer other topics back to C++.

When providing code examples:
- Always use proper C++ syntax
- Include necessary headers (#include statements)
- Add comments to explain what the code does
- Format code blocks with ` + "```cpp" + ` markers on their own line and close them with ` + "```" + `

Keep responses concise but informative. Focus on practical examples that students can run and experiment with.`

const DemoMessage = "I'm here to help you with C++ programming! Since I'm currently in demo mode, here are some common C++ topics you can ask about:\n\n" +
	"• Variables and data types\n• Control flow (if-else, loops)\n• Functions and parameters\n" +
	"• Arrays and vectors\n• Pointers and references\n• Classes and objects\n\n" +
	"What specific C++ concept would you like to learn about?"

const UnavailableMessage = "I'm sorry, I'm having trouble connecting right now. " +
	"Please try again in a moment, or ask me about a specific C++ topic such as variables, loops, functions, or pointers."

var ErrEmptyMessage = errors.New("message is required")

// ChatModel is a hosted conversational model.
type ChatModel interface {
	Complete(ctx context.Context, messages []types.ChatMessage) (string, error)
}

type Service struct {
	model ChatModel
}

// NewService returns a tutor. A nil model runs the tutor in demo mode.
func NewService(model ChatModel) *Service {
	return &Service{model: model}
}

// Ask answers a learner message. The only error it returns is ErrEmptyMessage.
func (s *Service) Ask(ctx context.Context, message string, history []types.ChatMessage) (*types.TutorResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if s.model == nil {
		return canned(DemoMessage), nil
	}

	reply, err := s.model.Complete(ctx, buildConversation(message, history))
	if err != nil {
		log.Printf("Tutor model call failed: %v", err)
		return canned(UnavailableMessage), nil
	}
	if strings.TrimSpace(reply) == "" {
		log.Println("Tutor model returned an empty reply")
		return canned(UnavailableMessage), nil
	}

	content, blocks := ExtractCodeBlocks(reply)
	return &types.TutorResponse{Content: content, CodeBlocks: blocks}, nil
}

func buildConversation(message string, history []types.ChatMessage) []types.ChatMessage {
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	conversation := make([]types.ChatMessage, 0, len(history)+2)
	conversation = append(conversation, types.ChatMessage{Role: RoleSystem, Content: SystemPrompt})
	for _, m := range history {
		if (m.Role != RoleUser && m.Role != RoleAssistant) || strings.TrimSpace(m.Content) == "" {
			continue
		}
		conversation = append(conversation, m)
	}
	return append(conversation, types.ChatMessage{Role: RoleUser, Content: message})
}

func canned(content string) *types.TutorResponse {
	return &types.TutorResponse{Content: content, CodeBlocks: []types.CodeBlock{}}
}
