package summarizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const systemPrompt = `You are an assistant summarizing video transcripts.
Summarize the following transcript in 1-3 concise paragraphs.
Focus on key points, main arguments, and important details.`

const userPrompt = `Transcript: %s`

// instructPrompt wraps the request in the [INST] markers that instruction-tuned
// Mixtral models expect.
const instructPrompt = `<s>[INST] %s
Transcript: %s [/INST]</s>`

func buildPrompt(transcript string, maxChars int) string {
	return systemPrompt + "\n" + fmt.Sprintf(userPrompt, truncate(transcript, maxChars))
}

// truncate cuts s to at most n runes, backing up to the last space so a word
// is not split. n <= 0 disables the limit.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return cut
}
