package tutor

import (
	"regexp"
	"strings"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
)

const defaultLanguage = "cpp"

var openingFence = regexp.MustCompile("^\\s*```(\\w*)\\s*$")

// ExtractCodeBlocks pulls fenced code blocks out of a reply, in order of appearance.
// Each block is replaced by a single empty line in the returned content.
// An opening fence without a matching closing fence is kept as text.
func ExtractCodeBlocks(text string) (string, []types.CodeBlock) {
	lines := strings.Split(text, "\n")
	blocks := make([]types.CodeBlock, 0)
	kept := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		match := openingFence.FindStringSubmatch(lines[i])
		if match == nil {
			kept = append(kept, lines[i])
			continue
		}

		end := closingFence(lines, i+1)
		if end < 0 {
			kept = append(kept, lines[i:]...)
			break
		}

		language := match[1]
		if language == "" {
			language = defaultLanguage
		}
		blocks = append(blocks, types.CodeBlock{
			Language: language,
			Code:     strings.TrimSpace(strings.Join(lines[i+1:end], "\n")),
		})
		kept = append(kept, "")
		i = end
	}

	return strings.TrimSpace(strings.Join(kept, "\n")), blocks
}

func closingFence(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
			return j
		}
	}
	return -1
}
