package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("PAYMENT_KEY", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("REPORT_CRON_SCHEDULE", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")
	t.Setenv("WHATSAPP_MANAGER_ID", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "America/Sao_Paulo", cfg.Register.Timezone)
	assert.Equal(t, "39410752000166", cfg.Register.PaymentKey)
	assert.Equal(t, "Credentials", cfg.Sheets.CredentialsSheet)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadSheetsRequiresCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "sheets")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH")

	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEET_DATABASE_ID")

	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sheet-id", cfg.Sheets.SpreadsheetID)
}

func TestValidateRejectsBadValues(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("STORE_DRIVER", "postgres")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SESSION_TTL", "soon")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("REPORT_CRON_SCHEDULE", "0 18 * * *")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_CRON_SCHEDULE")

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	_, err = Load("")
	require.NoError(t, err)
}
