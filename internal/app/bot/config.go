package bot

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// ErrMissingStaffChannel is fatal at startup.
var ErrMissingStaffChannel = errors.New("STAFF_CHANNEL_ID missing in env")

// Config carries environment-driven settings for the bot process.
type Config struct {
	DiscordToken   string        `env:"DISCORD_TOKEN"`
	ClientID       string        `env:"CLIENT_ID"`
	GuildID        string        `env:"GUILD_ID"`
	StaffChannelID string        `env:"STAFF_CHANNEL_ID"`
	Methods        []string      `env:"PAYMENT_METHODS"      envDefault:"paypal" envSeparator:","`
	PayPalReceiver string        `env:"PAYPAL_RECEIVER"`
	CardLink       string        `env:"CARD_PAYMENT_LINK"`
	AckText        string        `env:"ACK_TEXT"`
	Port           string        `env:"PORT"                 envDefault:"3000"`
	OrderTTL       time.Duration `env:"ORDER_TTL"            envDefault:"0s"`
	SweepInterval  time.Duration `env:"ORDER_SWEEP_INTERVAL" envDefault:"1m"`
	PutPolicy      string        `env:"ORDER_PUT_POLICY"     envDefault:"replace"`
	IDStrategy     string        `env:"ORDER_ID_STRATEGY"    envDefault:"random"`
	LogLevel       string        `env:"LOG_LEVEL"            envDefault:"info"`
	Environment    string        `env:"ENVIRONMENT"          envDefault:"local"`
}

// LoadConfig reads an optional .env file, then environment variables.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StaffChannelID = strings.TrimSpace(cfg.StaffChannelID)
	cfg.DiscordToken = strings.TrimSpace(cfg.DiscordToken)
	return cfg, nil
}

// ValidateServe checks settings required to run the bot. Missing method
// destinations are not checked here; they surface when a form is submitted.
func (c Config) ValidateServe() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN missing in env")
	}
	if c.StaffChannelID == "" {
		return ErrMissingStaffChannel
	}
	if _, err := c.Catalog(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.OrderTTL < 0 {
		return errors.New("ORDER_TTL must not be negative")
	}
	return nil
}

// ValidateRegister checks settings required to register slash commands.
func (c Config) ValidateRegister() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN missing in env")
	}
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.GuildID) == "" {
		return errors.New("missing CLIENT_ID or GUILD_ID in env")
	}
	return nil
}

// Catalog builds the enabled method set with destinations.
func (c Config) Catalog() (domain.Catalog, error) {
	methods := make([]domain.Method, 0, len(c.Methods))
	for _, raw := range c.Methods {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		m, err := domain.ParseMethod(raw)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("PAYMENT_METHODS: %w", err)
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return domain.Catalog{}, errors.New("PAYMENT_METHODS must enable at least one method")
	}
	return domain.NewCatalog(methods, map[domain.Method]string{
		domain.MethodPayPal: c.PayPalReceiver,
		domain.MethodCard:   c.CardLink,
	}), nil
}

// Policy parses ORDER_PUT_POLICY.
func (c Config) Policy() (ports.PutPolicy, error) {
	switch ports.PutPolicy(strings.ToLower(strings.TrimSpace(c.PutPolicy))) {
	case "", ports.PolicyReplace:
		return ports.PolicyReplace, nil
	case ports.PolicyRejectExisting:
		return ports.PolicyRejectExisting, nil
	default:
		return "", fmt.Errorf("ORDER_PUT_POLICY must be %q or %q", ports.PolicyReplace, ports.PolicyRejectExisting)
	}
}

// Addr is the liveness listen address.
func (c Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "3000"
	}
	return ":" + port
}
