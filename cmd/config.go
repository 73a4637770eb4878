package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	IndexFilepath   string        `env:"INDEX_FILEPATH"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL"`
	AITriggerWord   string        `env:"AI_TRIGGER_WORD"`
	AITimeout       time.Duration `env:"AI_TIMEOUT,default=10s"`
	ForbiddenWords  string        `env:"FORBIDDEN_WORDS"`
	CharReplacement string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
}

// CharacterRune converts the replacement character into the rune the
// censor needs, rejecting multi-character values.
func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}

// forbiddenWords splits the comma separated FORBIDDEN_WORDS value,
// dropping blanks.
func (c Config) forbiddenWords() []string {
	var words []string
	for _, word := range strings.Split(c.ForbiddenWords, ",") {
		if word = strings.TrimSpace(word); word != "" {
			words = append(words, word)
		}
	}
	return words
}
