// Package config reads the configuration from the environment, an optional
// .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/budgetflow/backend/internal/envelope"
	"github.com/budgetflow/backend/internal/notify"
	"github.com/budgetflow/backend/internal/oracle"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrAPIURLMissing = errors.New("environment variable API_URL must be set")

// Database configures the connection. PostgreSQL is used when Host is
// set, SQLite in DataDir otherwise.
type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Config is the complete configuration.
type Config struct {
	APIURL    *url.URL
	GinMode   string
	LogFormat string
	DataDir   string
	Database  Database

	ControllableAccounts []string
	WorkflowTemplates    string

	Oracle        oracle.Config
	ControlBudget string

	// BalanceReportSchedule is a cron spec, the refresh job is disabled
	// when it is empty.
	BalanceReportSchedule string
	TimeZone              string

	SMTP notify.Config
}

func defaults(v *viper.Viper) {
	v.SetDefault("gin_mode", "release")
	v.SetDefault("data_dir", "data")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("controllable_accounts", strings.Join(envelope.DefaultControllableRoots, ","))
	v.SetDefault("oracle_timeout", "60s")
	v.SetDefault("oracle_journal_source", "Budget Transfer")
	v.SetDefault("oracle_journal_category", "Budget")
	v.SetDefault("oracle_currency", "AED")
	v.SetDefault("smtp_port", 587)
}

// Load reads the configuration. file is an optional path to a config
// file, without it config.yaml in the working directory is used if it
// exists. Environment variables take precedence over the file.
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load .env: %w", err)
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	raw := v.GetString("api_url")
	if raw == "" {
		return Config{}, ErrAPIURLMissing
	}

	apiURL, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return Config{}, fmt.Errorf("API_URL must be a valid URL: %w", err)
	}

	timeout, err := time.ParseDuration(v.GetString("oracle_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("ORACLE_TIMEOUT must be a duration: %w", err)
	}

	return Config{
		APIURL:    apiURL,
		GinMode:   v.GetString("gin_mode"),
		LogFormat: v.GetString("log_format"),
		DataDir:   v.GetString("data_dir"),
		Database: Database{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		ControllableAccounts: List(v.GetString("controllable_accounts")),
		WorkflowTemplates:    v.GetString("workflow_templates"),
		Oracle: oracle.Config{
			URL:               v.GetString("oracle_url"),
			User:              v.GetString("oracle_user"),
			Password:          v.GetString("oracle_password"),
			Timeout:           timeout,
			LedgerID:          v.GetString("oracle_ledger_id"),
			DataAccessSetID:   v.GetString("oracle_data_access_set_id"),
			JournalSource:     v.GetString("oracle_journal_source"),
			JournalCategory:   v.GetString("oracle_journal_category"),
			Currency:          v.GetString("oracle_currency"),
			EncumbranceTypeID: v.GetString("oracle_encumbrance_type_id"),
			BalanceReportPath: v.GetString("balance_report_path"),
		},
		ControlBudget:         v.GetString("oracle_control_budget"),
		BalanceReportSchedule: v.GetString("balance_report_schedule"),
		TimeZone:              v.GetString("time_zone"),
		SMTP: notify.Config{
			Host:     v.GetString("smtp_host"),
			Port:     v.GetInt("smtp_port"),
			User:     v.GetString("smtp_user"),
			Password: v.GetString("smtp_password"),
			From:     v.GetString("smtp_from"),
			Fallback: List(v.GetString("notify_to")),
		},
	}, nil
}

// List splits a comma or whitespace separated list.
func List(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Postgres reports whether a PostgreSQL server is configured.
func (c Config) Postgres() bool {
	return c.Database.Host != ""
}

// DSN returns the PostgreSQL DSN or the path of the SQLite file.
func (c Config) DSN() string {
	if !c.Postgres() {
		return filepath.Join(c.DataDir, "budgetflow.db")
	}

	d := c.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// SMTPEnabled reports whether notifications can be sent.
func (c Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}
