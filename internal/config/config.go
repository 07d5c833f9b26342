package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"remitd"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host       string `envconfig:"DB_HOST" default:"localhost"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER" default:"postgres"`
		Password   string `envconfig:"DB_PASSWORD" default:""`
		Name       string `envconfig:"DB_NAME" default:"remitd"`
		Migrations string `envconfig:"DB_MIGRATIONS" default:"migrations"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Parser struct {
		// Messages that still fail to parse after this many runs are
		// marked ignored instead of retried forever.
		MaxAttempts    int           `envconfig:"PARSER_MAX_ATTEMPTS" default:"5"`
		SourceTimezone string        `envconfig:"SOURCE_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
		Interval       time.Duration `envconfig:"PARSER_INTERVAL" default:"1m"`
	}

	Reconcile struct {
		Interval       time.Duration `envconfig:"RECONCILE_INTERVAL" default:"10m"`
		MatchReference bool          `envconfig:"RECONCILE_MATCH_REFERENCE" default:"true"`
		MatchPUID      bool          `envconfig:"RECONCILE_MATCH_PUID" default:"true"`
	}

	Push struct {
		URL         string        `envconfig:"PUSH_API_URL" default:""`
		APIKey      string        `envconfig:"PUSH_API_KEY" default:""`
		CompanyCode string        `envconfig:"PUSH_COMPANY_CODE" default:""`
		Timeout     time.Duration `envconfig:"PUSH_TIMEOUT" default:"30s"`
		MaxRetries  int           `envconfig:"PUSH_MAX_RETRIES" default:"3"`
		RetryDelay  time.Duration `envconfig:"PUSH_RETRY_DELAY" default:"2s"`
		Interval    time.Duration `envconfig:"PUSH_INTERVAL" default:"5m"`
	}

	Kafka struct {
		Enabled          bool   `envconfig:"KAFKA_ENABLED" default:"false"`
		Brokers          string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
		TransactionTopic string `envconfig:"KAFKA_TRANSACTION_TOPIC" default:"bank-transactions"`
		ReconcileTopic   string `envconfig:"KAFKA_RECONCILE_TOPIC" default:"reconcile-events"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) KafkaBrokers() []string {
	return strings.Split(c.Kafka.Brokers, ",")
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
