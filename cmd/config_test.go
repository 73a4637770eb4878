package main

import (
	"testing"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultsParseWithoutCensorVars(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	t.Setenv("LOG_LEVEL", "INFO")

	// Given none of the optional moderation variables are set
	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	// Then the replacement default survives the env round trip as a rune
	replacement, err := config.CharacterRune()
	req.NoError(err)
	req.Equal('*', replacement)
	req.Empty(config.forbiddenWords())
}

func TestConfig_CharacterRune(t *testing.T) {
	req := require.New(t)

	// Multi-byte characters are still one rune
	replacement, err := Config{CharReplacement: "★"}.CharacterRune()
	req.NoError(err)
	req.Equal('★', replacement)

	_, err = Config{CharReplacement: "**"}.CharacterRune()
	req.Error(err)
	_, err = Config{CharReplacement: ""}.CharacterRune()
	req.Error(err)
}

func TestConfig_ForbiddenWords_SplitsAndTrims(t *testing.T) {
	req := require.New(t)

	config := Config{ForbiddenWords: "viper, toad ,,  "}
	req.Equal([]string{"viper", "toad"}, config.forbiddenWords())
}
