// Package tokenizer implements the lightweight word tokenizer used by the
// TF-IDF vocabulary builder/embedder. It is pure and idempotent: same input
// always yields same tokens.
package tokenizer

import (
	"regexp"
	"strings"
)

// minWordLength is the shortest token kept after filtering.
const minWordLength = 3

// nonWord matches any rune that is neither a word character nor whitespace;
// it is replaced with a space before splitting.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// stopWords is a small closed list of common English function words, the
// same kind of list the teacher's TF-IDF embedder carries inline
// (embedder/embedder_tfidf.go), extended to 123 entries.
var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "could", "did",
		"do", "does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here",
		"hers", "herself", "him", "himself", "his", "how", "if", "in",
		"into", "is", "it", "its", "itself", "just", "me", "more", "most",
		"my", "myself", "no", "nor", "not", "of", "off", "on", "once",
		"only", "or", "other", "our", "ours", "ourselves", "out", "over",
		"own", "same", "she", "should", "so", "some", "such", "than",
		"that", "the", "their", "theirs", "them", "themselves", "then",
		"there", "these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "whom", "why", "will", "with",
		"would", "you", "your", "yours", "yourself", "yourselves",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Tokenize lowercases s, replaces non-word runes with spaces, splits on
// whitespace, and drops stop-words and tokens shorter than three characters.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	lowered := strings.ToLower(s)
	cleaned := nonWord.ReplaceAllString(lowered, " ")
	fields := whitespaceRun.Split(strings.TrimSpace(cleaned), -1)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if len(f) < minWordLength {
			continue
		}
		if stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// IsStopWord reports whether w is on the closed stop-word list.
func IsStopWord(w string) bool {
	return stopWords[strings.ToLower(w)]
}
