package main

import (
	"testing"

	"indexbot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("QUOTE_STRATEGIES", "nse,yahoo")

	t.Run("Web only", func(t *testing.T) {
		t.Setenv("TELEGRAM_CHAT_ID", "@indexbot")

		conf, err := config.NewConfig()
		require.NoError(t, err)

		b, scraper, closeStore, err := build(conf)
		require.NoError(t, err)
		defer closeStore()

		assert.NotNil(t, b)
		assert.False(t, scraper.Capabilities().NeedsSession())
	})

	t.Run("Bad chat id", func(t *testing.T) {
		t.Setenv("TELEGRAM_CHAT_ID", "indexbot")

		conf, err := config.NewConfig()
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			_, _, _, err = build(conf)
		})
		assert.Error(t, err)
	})

	t.Run("Alpaca without keys", func(t *testing.T) {
		t.Setenv("TELEGRAM_CHAT_ID", "-100200")
		t.Setenv("QUOTE_STRATEGIES", "alpaca")

		conf, err := config.NewConfig()
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			_, _, _, err = build(conf)
		})
		assert.ErrorIs(t, err, config.ErrMissingEnv)
	})
}
