package bot

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"indexbot/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type TeleBot struct {
	bot       *tgbotapi.BotAPI
	chatId    int64
	channel   string // set instead of chatId for @username targets
	parseMode string
	lg        zerolog.Logger
}

type TeleBotConfig struct {
	Token       string
	ChatId      string
	ParseMode   string
	Timeout     time.Duration
	APIEndpoint string // tgbotapi.APIEndpoint when empty
}

// NewTeleBot does not call getMe, so a bad token only shows up as failed
// sends.
func NewTeleBot(conf *TeleBotConfig) (*TeleBot, error) {

	if conf.Token == "" {
		return nil, errors.New("telegram bot token is empty")
	}

	t := &TeleBot{
		parseMode: conf.ParseMode,
		lg:        logger.New("TeleBot"),
	}

	chat := strings.TrimSpace(conf.ChatId)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		t.chatId = id
	} else if strings.HasPrefix(chat, "@") {
		t.channel = chat
	} else {
		return nil, errors.New("telegram chat id must be numeric or an @channel name")
	}

	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	endpoint := conf.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	t.bot = &tgbotapi.BotAPI{
		Token:  conf.Token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	t.bot.SetAPIEndpoint(endpoint)

	return t, nil
}

// SendMessage delivers text to the configured chat. Failures are logged and
// reported as false; nothing is retried.
func (t *TeleBot) SendMessage(ctx context.Context, text string) bool {

	if err := ctx.Err(); err != nil {
		t.lg.Warn().Err(err).Msg("Message not sent")
		return false
	}

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatId, text)
	}
	msg.ParseMode = t.parseMode

	if _, err := t.bot.Send(msg); err != nil {
		t.lg.Error().Err(err).Int("length", len(text)).Msg("Failed to send message")
		return false
	}

	t.lg.Debug().Int("length", len(text)).Msg("Message sent")
	return true
}
