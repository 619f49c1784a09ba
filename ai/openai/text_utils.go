package openai

import (
	"regexp"
	"strings"
)

var (
	thinkBlockRe   = regexp.MustCompile(`(?s)<think>.*?</think>\n*`)
	answerMarkerRe = regexp.MustCompile(`(?i)\n*Answer: *`)
)

// cleanAnswer normalizes raw model output: removes <think> reasoning
// blocks, and if an "Answer:" marker is present, keeps only what follows
// it.
func cleanAnswer(answer string) string {
	answer = thinkBlockRe.ReplaceAllString(answer, "")

	if loc := answerMarkerRe.FindStringIndex(answer); loc != nil {
		answer = answerMarkerRe.ReplaceAllString(answer[loc[0]:], "")
	}

	return strings.TrimSpace(answer)
}
