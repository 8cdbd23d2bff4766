package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Postgres   Postgres   `yaml:"postgres"`
	Server     Server     `yaml:"server"`
	Scoring    Scoring    `yaml:"scoring"`
	Notifier   Notifier   `yaml:"notifier"`
	Migrations Migrations `yaml:"migrations"`
}

type Postgres struct {
	Username        string        `env:"POSTGRES_USER" env-required:"true"`
	Password        string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port            string        `env:"POSTGRES_PORT" env-default:"5432"`
	Database        string        `env:"POSTGRES_DB" env-required:"true"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"50"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

// Migrations locates the SQL migration files and names the bookkeeping
// table, so several services can migrate the same database independently.
type Migrations struct {
	Path  string `yaml:"path" env:"MIGRATIONS_PATH" env-default:"migrations"`
	Table string `yaml:"table" env:"MIGRATIONS_TABLE" env-default:"contribution_migrations"`
}

type Server struct {
	Host    string        `yaml:"host" env-default:"localhost"`
	Port    string        `yaml:"port" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// Scoring holds the global defaults for the scoring formulas. Per-project
// values (weights, thresholds, commit baseline) override these; everything
// here is passed explicitly into computations, never read ambiently.
type Scoring struct {
	// CommitBaseline is the default expected validated commit count at which
	// the commit activity score saturates at 100.
	CommitBaseline int `yaml:"commit_baseline" env-default:"20"`
	// LatePenaltyPerTask is how many composite points one late task costs
	// before the late weight is applied.
	LatePenaltyPerTask float64 `yaml:"late_penalty_per_task" env-default:"5"`
	// UrgencyMax is the urgency factor applied to overdue tasks; the factor
	// climbs toward this value as the deadline approaches.
	UrgencyMax float64 `yaml:"urgency_max" env-default:"3"`
	// UrgencyScaleDays controls how fast urgency rises: at UrgencyScaleDays
	// days before the deadline the factor sits halfway between 1 and max.
	UrgencyScaleDays float64 `yaml:"urgency_scale_days" env-default:"3"`
	// Free-rider corroboration floors.
	MinCommits   int     `yaml:"min_commits" env-default:"3"`
	MaxLateTasks int     `yaml:"max_late_tasks" env-default:"2"`
	MinTaskScore float64 `yaml:"min_task_score" env-default:"40"`
}

// DSN builds the connection string used by both the service and the
// migrator, without query parameters.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		p.Username, p.Password, p.Host, p.Port, p.Database)
}

type Notifier struct {
	WebhookURL   string        `yaml:"webhook_url" env:"NOTIFIER_WEBHOOK_URL"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env-default:"2s"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}
