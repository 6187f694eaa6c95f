package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeDropsStopWordsAndShortTokens(t *testing.T) {
	tokens := Tokenize("The quick fox is at a gym")
	assert.ElementsMatch(t, []string{"quick", "fox", "gym"}, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Nil(t, Tokenize(""))
}

func TestTokenizeLowercasesAndStripsPunctuation(t *testing.T) {
	tokens := Tokenize("HTTP requests, HTTP responses!")
	assert.ElementsMatch(t, []string{"http", "requests", "http", "responses"}, tokens)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("The"))
	assert.False(t, IsStopWord("server"))
}
