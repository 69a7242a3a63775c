package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fidelity_bot/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	credentialsENV    = "FIDELITY"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	headlessENV       = "HEADLESS"
)

// Config ...
type Config struct {
	// Credentials is the raw FIDELITY value: comma-separated
	// username:password[:totp] sets. Parsed lazily by CredentialSets.
	Credentials string `mapstructure:"credentials"`

	Headless      bool   `mapstructure:"headless"`
	ProfileDir    string `mapstructure:"profile_dir"`
	DownloadDir   string `mapstructure:"download_dir"`
	SelectorsFile string `mapstructure:"selectors_file"`

	// Mode: "holdings" reports positions, "transaction" submits orders.
	Mode string `mapstructure:"mode"`

	Order struct {
		Action   string   `mapstructure:"action"`
		Tickers  []string `mapstructure:"tickers"`
		Quantity float64  `mapstructure:"quantity"`
		Dry      bool     `mapstructure:"dry"`
	} `mapstructure:"order"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	Jaeger struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"jaeger"`

	Health struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"health"`

	Timeouts struct {
		Nav          time.Duration `mapstructure:"nav"`
		Spinner      time.Duration `mapstructure:"spinner"`
		Widget       time.Duration `mapstructure:"widget"`
		SecondFactor time.Duration `mapstructure:"second_factor"`
		QuotePanel   time.Duration `mapstructure:"quote_panel"`
		Ticket       time.Duration `mapstructure:"ticket"`
		ErrorText    time.Duration `mapstructure:"error_text"`
		Confirm      time.Duration `mapstructure:"confirm"`
		// OTPWait bounds how long the runner waits for an SMS code
		// relayed out of band.
		OTPWait time.Duration `mapstructure:"otp_wait"`
	} `mapstructure:"timeouts"`

	DropdownRetries int `mapstructure:"dropdown_retries"`
}

func NewConfig() (*Config, error) {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(fileFromEnv())
	v.SetConfigType("yaml")

	v.SetDefault("headless", true)
	v.SetDefault("profile_dir", "profiles")
	v.SetDefault("download_dir", ".")
	v.SetDefault("mode", "holdings")
	v.SetDefault("order.dry", true)
	v.SetDefault("health.addr", ":8080")
	v.SetDefault("timeouts.nav", "60s")
	v.SetDefault("timeouts.spinner", "30s")
	v.SetDefault("timeouts.widget", "5s")
	v.SetDefault("timeouts.second_factor", "5s")
	v.SetDefault("timeouts.quote_panel", "2s")
	v.SetDefault("timeouts.ticket", "5s")
	v.SetDefault("timeouts.error_text", "2s")
	v.SetDefault("timeouts.confirm", "5s")
	v.SetDefault("timeouts.otp_wait", "60s")
	v.SetDefault("dropdown_retries", 1)

	// A missing file is fine: env plus defaults is a full config.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment beats the file for secrets and operator toggles.
	if creds := os.Getenv(credentialsENV); creds != "" {
		config.Credentials = creds
	}
	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if chat := os.Getenv(chatTelegramENV); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if headless := os.Getenv(headlessENV); headless != "" {
		config.Headless = headless == "1" || strings.EqualFold(headless, "true")
	}

	return &config, nil
}

// CredentialSets parses the raw FIDELITY value into per-login
// credentials.
func (c *Config) CredentialSets() ([]models.Credentials, error) {
	var out []models.Credentials
	for _, raw := range models.SplitCredentialSets(c.Credentials) {
		creds, err := models.ParseCredentials(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, creds)
	}
	return out, nil
}

func fileFromEnv() string {
	if name := os.Getenv(configFilePathENV); name != "" {
		return "configs/" + name
	}
	return "configs/values_local.yaml"
}
