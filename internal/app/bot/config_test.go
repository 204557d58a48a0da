package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

var configKeys = []string{
	"DISCORD_TOKEN", "CLIENT_ID", "GUILD_ID", "STAFF_CHANNEL_ID", "PAYMENT_METHODS",
	"PAYPAL_RECEIVER", "CARD_PAYMENT_LINK", "ACK_TEXT", "PORT", "ORDER_TTL",
	"ORDER_SWEEP_INTERVAL", "ORDER_PUT_POLICY", "ORDER_ID_STRATEGY", "LOG_LEVEL", "ENVIRONMENT",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(missingFile(t))
	require.NoError(t, err)

	require.Equal(t, []string{"paypal"}, cfg.Methods)
	require.Equal(t, ":3000", cfg.Addr())
	require.Zero(t, cfg.OrderTTL)
	require.Equal(t, time.Minute, cfg.SweepInterval)
	policy, err := cfg.Policy()
	require.NoError(t, err)
	require.Equal(t, ports.PolicyReplace, policy)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", " token ")
	t.Setenv("STAFF_CHANNEL_ID", " 123 ")
	t.Setenv("PAYMENT_METHODS", "paypal, card")
	t.Setenv("PAYPAL_RECEIVER", "pay@example.com")
	t.Setenv("CARD_PAYMENT_LINK", "https://pay.example/x")
	t.Setenv("PORT", "8081")
	t.Setenv("ORDER_TTL", "24h")
	t.Setenv("ORDER_PUT_POLICY", "Reject")

	cfg, err := LoadConfig(missingFile(t))
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateServe())
	require.Equal(t, "token", cfg.DiscordToken)
	require.Equal(t, "123", cfg.StaffChannelID)
	require.Equal(t, ":8081", cfg.Addr())
	require.Equal(t, 24*time.Hour, cfg.OrderTTL)

	catalog, err := cfg.Catalog()
	require.NoError(t, err)
	require.Equal(t, []domain.Method{domain.MethodPayPal, domain.MethodCard}, catalog.Methods())
	d, ok := catalog.Destination(domain.MethodCard)
	require.True(t, ok)
	require.Equal(t, domain.DestinationLink, d.Kind)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	require.Equal(t, ports.PolicyRejectExisting, policy)
}

func TestLoadConfig_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAFF_CHANNEL_ID", "from-env")
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("STAFF_CHANNEL_ID=from-file\nPAYPAL_RECEIVER=file@example.com\n"), 0o600))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.StaffChannelID)
	require.Equal(t, "file@example.com", cfg.PayPalReceiver)
}

func TestValidateServe_RequiresStaffChannel(t *testing.T) {
	cfg := Config{DiscordToken: "t", Methods: []string{"paypal"}}
	require.ErrorIs(t, cfg.ValidateServe(), ErrMissingStaffChannel)
}

func TestValidateServe_RejectsBadSettings(t *testing.T) {
	base := Config{DiscordToken: "t", StaffChannelID: "c", Methods: []string{"paypal"}}
	require.NoError(t, base.ValidateServe())

	noToken := base
	noToken.DiscordToken = ""
	require.Error(t, noToken.ValidateServe())

	badMethod := base
	badMethod.Methods = []string{"crypto"}
	require.ErrorIs(t, badMethod.ValidateServe(), domain.ErrUnknownMethod)

	noMethods := base
	noMethods.Methods = []string{" "}
	require.Error(t, noMethods.ValidateServe())

	badPolicy := base
	badPolicy.PutPolicy = "merge"
	require.Error(t, badPolicy.ValidateServe())

	negativeTTL := base
	negativeTTL.OrderTTL = -time.Second
	require.Error(t, negativeTTL.ValidateServe())
}

func TestValidateRegister(t *testing.T) {
	require.Error(t, Config{DiscordToken: "t", ClientID: "app"}.ValidateRegister())
	require.NoError(t, Config{DiscordToken: "t", ClientID: "app", GuildID: "g"}.ValidateRegister())
}
