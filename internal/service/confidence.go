package service

import (
	"regexp"
	"strings"

	"github.com/mukundajmera/enterprise-scale-RAG-system/internal/model"
)

// numericTokenRe matches plain numbers and percentages ("42", "3.5", "15%").
var numericTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

var wordRe = regexp.MustCompile(`[a-z]+`)

// magnitudeWords are order-of-magnitude words treated like numeric claims.
var magnitudeWords = map[string]bool{
	"hundred":  true,
	"thousand": true,
	"million":  true,
	"billion":  true,
	"trillion": true,
}

// certaintyWords is absolute-certainty language an answer may not introduce
// on its own.
var certaintyWords = map[string]bool{
	"always":     true,
	"never":      true,
	"exactly":    true,
	"precisely":  true,
	"definitely": true,
}

// noInfoPhrases are admissions that force confidence to Low.
var noInfoPhrases = []string{
	"i cannot find",
	"not mentioned",
	"no information",
}

// CheckHallucination runs the lexical grounding check: every numeric token,
// magnitude word, and certainty word in the answer must appear verbatim
// (case-insensitive) somewhere in the retrieved context. This is a
// deliberately simple substring check, not entailment; its behavior is a
// frozen contract because it feeds the confidence label.
func CheckHallucination(answer, context string) bool {
	answerLower := strings.ToLower(answer)
	contextLower := strings.ToLower(context)

	for _, token := range numericTokenRe.FindAllString(answerLower, -1) {
		if !strings.Contains(contextLower, token) {
			return true
		}
	}

	for _, word := range wordRe.FindAllString(answerLower, -1) {
		if magnitudeWords[word] || certaintyWords[word] {
			if !strings.Contains(contextLower, word) {
				return true
			}
		}
	}

	return false
}

// AnswerAdmitsNoInfo reports whether the answer itself concedes the sources
// did not contain what was asked.
func AnswerAdmitsNoInfo(answer string) bool {
	answerLower := strings.ToLower(answer)
	for _, phrase := range noInfoPhrases {
		if strings.Contains(answerLower, phrase) {
			return true
		}
	}
	return false
}

// ConfidenceFromScore maps the mean retrieval similarity to a label.
func ConfidenceFromScore(meanScore, highThreshold, mediumThreshold float64) model.Confidence {
	switch {
	case meanScore >= highThreshold:
		return model.ConfidenceHigh
	case meanScore >= mediumThreshold:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// EstimateTokens approximates a tokenizer count as word count x 1.3.
func EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * 1.3)
}
