package assistant

import (
	"fmt"
	"regexp"
	"strings"
)

// questionLine matches a numbered list entry at the start of a line:
// "1. text" or "2) text".
var questionLine = regexp.MustCompile(`^\s*\d+[.)]\s+(.*\S)\s*$`)

// minQuestions is the threshold for entering collection mode. A single
// numbered line is treated as ordinary prose.
const minQuestions = 2

// ExtractQuestions pulls an ordered question queue out of reply text.
// It returns nil unless at least two lines match the numbered pattern.
func ExtractQuestions(speak string) []string {
	var questions []string
	for _, line := range strings.Split(speak, "\n") {
		if m := questionLine.FindStringSubmatch(line); m != nil {
			questions = append(questions, m[1])
		}
	}
	if len(questions) < minQuestions {
		return nil
	}
	return questions
}

// AnswerRecord pairs a collected question with the user's answer.
type AnswerRecord struct {
	Question string
	Answer   string
}

// BuildComposite assembles the follow-up command sent after all
// pending questions are answered. The separators are fixed; the
// backend parses this shape.
func BuildComposite(intent string, answers []AnswerRecord) string {
	var b strings.Builder
	b.WriteString(intent)
	b.WriteString("\nDetails:")
	for i, a := range answers {
		fmt.Fprintf(&b, "\n%d. %s: %s", i+1, a.Question, a.Answer)
	}
	return b.String()
}
