package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"indexbot/bot"
	"indexbot/internal/logger"
	"indexbot/internal/model"
	"indexbot/internal/util"
	"indexbot/scrape"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configByte []byte

var ErrMissingEnv = errors.New("missing required environment variable")

type InstrumentConfig struct {
	Name          string `yaml:"name" validate:"required"`
	Kind          string `yaml:"kind" validate:"required,oneof=index stock"`
	Exchange      string `yaml:"exchange" validate:"required,oneof=NSE BSE NFO MCX"`
	Token         string `yaml:"token"`
	TradingSymbol string `yaml:"tradingSymbol"`
	Search        string `yaml:"search"`
	NSE           string `yaml:"nse"`
	Yahoo         string `yaml:"yahoo"`
	CrawlURL      string `yaml:"crawlUrl" validate:"omitempty,url"`
	CrawlCSS      string `yaml:"crawlCss" validate:"required_with=CrawlURL"`
	Alpaca        string `yaml:"alpaca"`
}

type Config struct {
	Log       string `yaml:"log"`
	LogFile   string `yaml:"logFile"`
	SecretKey string `yaml:"-"`
	App       struct {
		Port int `yaml:"port" validate:"gt=0,lt=65536"`
	} `yaml:"app"`
	Poll struct {
		Interval int    `yaml:"interval" validate:"gt=0"`
		Schedule string `yaml:"schedule"`
		Layout   string `yaml:"layout" validate:"oneof=grouped flat"`
	} `yaml:"poll"`
	HTTP struct {
		Timeout int `yaml:"timeout" validate:"gt=0"`
	} `yaml:"http"`
	SmartAPI struct {
		APIKey     string `yaml:"apiKey"`
		ClientID   string `yaml:"clientId"`
		Password   string `yaml:"password"`
		TOTPSecret string `yaml:"totpSecret"`
		BaseURL    string `yaml:"baseUrl" validate:"required,url"`
		FeedURL    string `yaml:"feedUrl" validate:"required,url"`
		LocalIP    string `yaml:"localIp"`
		PublicIP   string `yaml:"publicIp"`
		MACAddress string `yaml:"macAddress"`
	} `yaml:"smartapi"`
	Telegram struct {
		Token     string `yaml:"token"`
		ChatId    string `yaml:"chatId" validate:"chatid"`
		ParseMode string `yaml:"parseMode" validate:"omitempty,oneof=HTML Markdown MarkdownV2"`
	} `yaml:"telegram"`
	Web struct {
		NSEBaseURL   string `yaml:"nseBaseUrl" validate:"required,url"`
		YahooBaseURL string `yaml:"yahooBaseUrl" validate:"required,url"`
	} `yaml:"web"`
	Alpaca struct {
		APIKey    string `yaml:"apiKey"`
		APISecret string `yaml:"apiSecret"`
		BaseURL   string `yaml:"baseUrl"`
	} `yaml:"alpaca"`
	HistoryDsn     string             `yaml:"historyDsn"`
	Strategies     []string           `yaml:"strategies" validate:"min=1"`
	InstrumentList []InstrumentConfig `yaml:"instruments" validate:"min=1,dive"`
}

// NewConfig loads the embedded defaults, an optional .env file and the
// process environment, in that order of increasing precedence.
func NewConfig() (*Config, error) {

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var conf Config
	if err := yaml.Unmarshal(configByte, &conf); err != nil {
		return nil, err
	}

	if err := conf.overrideWithEnv(); err != nil {
		return nil, err
	}

	if err := conf.reveal(); err != nil {
		return nil, err
	}

	return &conf, nil
}

// Validate reports missing required variables wrapped in ErrMissingEnv, and
// structural problems as validator errors.
func (c Config) Validate() error {

	caps, err := c.Capabilities()
	if err != nil {
		return err
	}

	required := map[string]string{
		"TELEGRAM_BOT_TOKEN": c.Telegram.Token,
		"TELEGRAM_CHAT_ID":   c.Telegram.ChatId,
	}
	if caps.NeedsSession() {
		required["SMARTAPI_API_KEY"] = c.SmartAPI.APIKey
		required["SMARTAPI_CLIENT_ID"] = c.SmartAPI.ClientID
		required["SMARTAPI_PASSWORD"] = c.SmartAPI.Password
		required["SMARTAPI_TOTP_SECRET"] = c.SmartAPI.TOTPSecret
	}
	if caps.Has(scrape.CapAlpaca) {
		required["ALPACA_API_KEY"] = c.Alpaca.APIKey
		required["ALPACA_API_SECRET"] = c.Alpaca.APISecret
	}

	missing := make([]string, 0)
	for name, v := range required {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	v := validator.New()
	if err := v.RegisterValidation("chatid", validChatId); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := c.Schedule(); err != nil {
		return err
	}

	return nil
}

// validChatId accepts a numeric chat id or an @channel name.
func validChatId(fl validator.FieldLevel) bool {
	chat := strings.TrimSpace(fl.Field().String())
	if name, ok := strings.CutPrefix(chat, "@"); ok {
		return name != ""
	}
	_, err := strconv.ParseInt(chat, 10, 64)
	return err == nil
}

func (c Config) LogLevel() (zerolog.Level, error) {

	level, err := zerolog.ParseLevel(c.Log)
	if err != nil {
		return zerolog.InfoLevel, err
	}

	return level, nil
}

func (c Config) LogFileConfig() *logger.FileConfig {
	if c.LogFile == "" {
		return nil
	}
	return &logger.FileConfig{
		Filename:   c.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

func (c Config) BotConfig() *bot.TeleBotConfig {
	return &bot.TeleBotConfig{
		Token:     c.Telegram.Token,
		ChatId:    c.Telegram.ChatId,
		ParseMode: c.Telegram.ParseMode,
		Timeout:   c.Timeout(),
	}
}

func (c Config) SmartAPIConfig() *scrape.SmartAPIConfig {
	return &scrape.SmartAPIConfig{
		APIKey:     c.SmartAPI.APIKey,
		BaseURL:    c.SmartAPI.BaseURL,
		FeedURL:    c.SmartAPI.FeedURL,
		LocalIP:    c.SmartAPI.LocalIP,
		PublicIP:   c.SmartAPI.PublicIP,
		MACAddress: c.SmartAPI.MACAddress,
		Timeout:    c.Timeout(),
	}
}

func (c Config) WebConfig() *scrape.WebConfig {
	return &scrape.WebConfig{
		NSEBaseURL:   c.Web.NSEBaseURL,
		YahooBaseURL: c.Web.YahooBaseURL,
		Timeout:      c.Timeout(),
	}
}

func (c Config) AlpacaConfig() *scrape.AlpacaConfig {
	return &scrape.AlpacaConfig{
		APIKey:    c.Alpaca.APIKey,
		APISecret: c.Alpaca.APISecret,
		BaseURL:   c.Alpaca.BaseURL,
	}
}

func (c Config) Credentials() model.Credentials {
	return model.Credentials{
		APIKey:     c.SmartAPI.APIKey,
		ClientID:   c.SmartAPI.ClientID,
		Password:   c.SmartAPI.Password,
		TOTPSecret: c.SmartAPI.TOTPSecret,
	}
}

func (c Config) Capabilities() (scrape.Capability, error) {
	return scrape.ParseCapabilities(c.Strategies)
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.Interval) * time.Second
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}

func (c Config) Instruments() ([]model.Instrument, error) {

	rtn := make([]model.Instrument, 0, len(c.InstrumentList))
	for _, ic := range c.InstrumentList {
		kind, err := model.ToKind(ic.Kind)
		if err != nil {
			return nil, err
		}
		rtn = append(rtn, model.Instrument{
			Name:          ic.Name,
			Kind:          kind,
			Exchange:      ic.Exchange,
			Token:         ic.Token,
			TradingSymbol: ic.TradingSymbol,
			SearchQuery:   ic.Search,
			NSEIndex:      ic.NSE,
			YahooSymbol:   ic.Yahoo,
			CrawlURL:      ic.CrawlURL,
			CrawlCSS:      ic.CrawlCSS,
			AlpacaSymbol:  ic.Alpaca,
		})
	}
	return rtn, nil
}

func (c *Config) overrideWithEnv() error {

	strs := map[string]*string{
		"SMARTAPI_API_KEY":     &c.SmartAPI.APIKey,
		"SMARTAPI_CLIENT_ID":   &c.SmartAPI.ClientID,
		"SMARTAPI_PASSWORD":    &c.SmartAPI.Password,
		"SMARTAPI_TOTP_SECRET": &c.SmartAPI.TOTPSecret,
		"SMARTAPI_BASE_URL":    &c.SmartAPI.BaseURL,
		"SMARTAPI_FEED_URL":    &c.SmartAPI.FeedURL,
		"TELEGRAM_BOT_TOKEN":   &c.Telegram.Token,
		"TELEGRAM_CHAT_ID":     &c.Telegram.ChatId,
		"TELEGRAM_PARSE_MODE":  &c.Telegram.ParseMode,
		"POLL_SCHEDULE":        &c.Poll.Schedule,
		"MESSAGE_LAYOUT":       &c.Poll.Layout,
		"LOG_LEVEL":            &c.Log,
		"LOG_FILE":             &c.LogFile,
		"HISTORY_DSN":          &c.HistoryDsn,
		"ALPACA_API_KEY":       &c.Alpaca.APIKey,
		"ALPACA_API_SECRET":    &c.Alpaca.APISecret,
		"CONFIG_SECRET_KEY":    &c.SecretKey,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		"POLL_INTERVAL": &c.Poll.Interval,
		"PORT":          &c.App.Port,
		"HTTP_TIMEOUT":  &c.HTTP.Timeout,
	}
	for name, field := range ints {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", name, err)
		}
		*field = n
	}

	if v := os.Getenv("QUOTE_STRATEGIES"); v != "" {
		c.Strategies = splitList(v)
	}

	return nil
}

// reveal decrypts every secret stored with the enc: prefix.
func (c *Config) reveal() (err error) {
	for _, field := range []*string{
		&c.SmartAPI.APIKey,
		&c.SmartAPI.Password,
		&c.SmartAPI.TOTPSecret,
		&c.Telegram.Token,
		&c.Alpaca.APISecret,
	} {
		*field, err = util.Reveal(c.SecretKey, *field)
		if err != nil {
			return fmt.Errorf("decrypting secret: %w", err)
		}
	}
	return nil
}

func splitList(s string) []string {
	rtn := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			rtn = append(rtn, strings.ToLower(p))
		}
	}
	return rtn
}
