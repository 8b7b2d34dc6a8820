package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")

	cfg, err := Load(t.TempDir() + "/missing.env")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.WhatsApp.Enabled() || cfg.Kafka.Enabled() || cfg.MongoDB.Enabled() || cfg.Sheets.Enabled() {
		t.Fatal("integrations should be disabled without credentials")
	}
}

func TestLoadKafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load(t.TempDir() + "/missing.env")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(cfg.Kafka.Brokers, "|"); got != "kafka-1:9092|kafka-2:9092" {
		t.Fatalf("brokers = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Storage:   StorageConfig{Driver: "sqlite", DSN: "x.db"},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory needs no dsn", mutate: func(c *Config) { c.Storage = StorageConfig{Driver: "memory"} }},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "oracle" }, wantErr: "STORAGE_DRIVER"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage = StorageConfig{Driver: "postgres"} }, wantErr: "STORAGE_DSN"},
		{name: "whatsapp without verify token", mutate: func(c *Config) {
			c.WhatsApp = WhatsAppConfig{AccessToken: "t", PhoneNumberID: "p", BaseURL: "u", APIVersion: "v"}
		}, wantErr: "META_VERIFY_TOKEN"},
		{name: "half sheets config", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }, wantErr: "GOOGLE_SHEETS"},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "APP_PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
