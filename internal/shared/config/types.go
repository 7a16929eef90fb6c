package config

import "fmt"

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token" validate:"required"`
	PollTimeout int    `mapstructure:"poll_timeout"`
}

// HeliusConfig configures the Solana asset-index client.
// RateLimitMS is the minimum spacing between any two outbound RPC calls.
type HeliusConfig struct {
	RPCURL      string `mapstructure:"rpc_url" validate:"required,url"`
	APIKey      string `mapstructure:"api_key" validate:"required"`
	RateLimitMS int    `mapstructure:"rate_limit_ms" validate:"gte=0"`
}

type VerifierConfig struct {
	// CronSchedule is a standard 5-field cron expression driving the
	// periodic reconciliation sweep.
	CronSchedule string `mapstructure:"cron_schedule" validate:"required"`
	Timezone     string `mapstructure:"timezone"`
}
