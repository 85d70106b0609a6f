package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// REQ-062: Configuration validation on startup
// REQ-063: Sensible defaults for optional settings
// REQ-064: Multiple environments support
type Config struct {
	Environment string          `mapstructure:"environment" validate:"oneof=development staging production"`
	LogLevel    string          `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Window      WindowConfig    `mapstructure:"window"`
	GA          GAConfig        `mapstructure:"ga"`
	Predictor   PredictorConfig `mapstructure:"predictor"`
	Server      ServerConfig    `mapstructure:"server"`
}

// DatabaseConfig configures the Postgres trade sink. It is optional: a run
// with Database.Host empty falls back to NoopSink rather than failing.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port" validate:"min=0,max=65535"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode" validate:"oneof=disable require verify-ca verify-full"`
	MaxConnections  int    `mapstructure:"max_connections" validate:"min=1,max=100"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"min=1"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"min=60"`
}

// WindowConfig holds the rolling walk-forward window defaults.
type WindowConfig struct {
	TrainMonths int `mapstructure:"train_months" validate:"min=1,max=11"`
	TestMonths  int `mapstructure:"test_months" validate:"min=1,max=11"`
	StepMonths  int `mapstructure:"step_months" validate:"min=1,max=11"`
	WarmupBars  int `mapstructure:"warmup_bars" validate:"min=0"`
}

// GAConfig holds the genetic algorithm defaults.
type GAConfig struct {
	PopulationSize           int     `mapstructure:"population_size" validate:"min=2"`
	NumGenerations           int     `mapstructure:"num_generations" validate:"min=1"`
	TournamentSize           int     `mapstructure:"tournament_size" validate:"min=1"`
	CrossoverRate            float64 `mapstructure:"crossover_rate" validate:"min=0,max=1"`
	MutationRate             float64 `mapstructure:"mutation_rate" validate:"min=0,max=1"`
	MutationSigmaPct         float64 `mapstructure:"mutation_sigma_pct" validate:"min=0"`
	ElitismCount             int     `mapstructure:"elitism_count" validate:"min=0"`
	EarlyStoppingGenerations int     `mapstructure:"early_stopping_generations" validate:"min=1"`
	Seed                     int64   `mapstructure:"seed"`
}

// PredictorConfig points at the optional pluggable ML predictor.
type PredictorConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

// ServerConfig configures the optional `wfo serve` HTTP surface.
type ServerConfig struct {
	HTTPPort     int  `mapstructure:"http_port" validate:"min=1024,max=65535"`
	ReadTimeout  int  `mapstructure:"read_timeout" validate:"min=1"`
	WriteTimeout int  `mapstructure:"write_timeout" validate:"min=1"`
	EnableCORS   bool `mapstructure:"enable_cors"`
}

// REQ-061: Load configuration from .env files and environment variables
func Load() (*Config, error) {
	// Load .env file if exists (development)
	if err := godotenv.Load("config/.env"); err != nil {
		// Don't fail if .env doesn't exist in production
		if os.Getenv("ENVIRONMENT") == "" {
			fmt.Printf("Warning: No .env file found, using environment variables only\n")
		}
	}

	viper.SetConfigType("env")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database binding
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	viper.BindEnv("database.max_connections", "DATABASE_MAX_CONNECTIONS")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.conn_max_lifetime", "DATABASE_CONN_MAX_LIFETIME")

	// Window binding
	viper.BindEnv("window.train_months", "WINDOW_TRAIN_MONTHS")
	viper.BindEnv("window.test_months", "WINDOW_TEST_MONTHS")
	viper.BindEnv("window.step_months", "WINDOW_STEP_MONTHS")
	viper.BindEnv("window.warmup_bars", "WINDOW_WARMUP_BARS")

	// GA binding
	viper.BindEnv("ga.population_size", "GA_POPULATION_SIZE")
	viper.BindEnv("ga.num_generations", "GA_NUM_GENERATIONS")
	viper.BindEnv("ga.tournament_size", "GA_TOURNAMENT_SIZE")
	viper.BindEnv("ga.crossover_rate", "GA_CROSSOVER_RATE")
	viper.BindEnv("ga.mutation_rate", "GA_MUTATION_RATE")
	viper.BindEnv("ga.mutation_sigma_pct", "GA_MUTATION_SIGMA_PCT")
	viper.BindEnv("ga.elitism_count", "GA_ELITISM_COUNT")
	viper.BindEnv("ga.early_stopping_generations", "GA_EARLY_STOPPING_GENERATIONS")
	viper.BindEnv("ga.seed", "GA_SEED")

	// Predictor binding
	viper.BindEnv("predictor.model_path", "PREDICTOR_MODEL_PATH")

	// Server binding
	viper.BindEnv("server.http_port", "SERVER_HTTP_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// REQ-063: Set sensible defaults
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// REQ-062: Validate configuration on startup
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// REQ-062: Configuration validation
func (c *Config) Validate() error {
	if c.Window.StepMonths != c.Window.TestMonths {
		return errors.New("window.step_months must equal window.test_months")
	}
	if c.Window.TrainMonths+c.Window.TestMonths > 12 {
		return errors.New("window.train_months + window.test_months must not exceed 12")
	}
	if c.GA.ElitismCount >= c.GA.PopulationSize {
		return errors.New("ga.elitism_count must be smaller than ga.population_size")
	}
	if c.GA.TournamentSize > c.GA.PopulationSize {
		return errors.New("ga.tournament_size must not exceed ga.population_size")
	}
	if c.Server.HTTPPort == 0 {
		return errors.New("server HTTP port is required")
	}
	return nil
}

// HasTradeSink reports whether a trade sink database is configured. Runs
// without one fall back to NoopSink.
func (c *Config) HasTradeSink() bool {
	return c.Database.Host != ""
}

// REQ-065: Mask sensitive values in logs
func (c *Config) String() string {
	masked := *c
	masked.Database.Password = "***"
	return fmt.Sprintf("%+v", masked)
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Database defaults (host empty => NoopSink)
	viper.SetDefault("database.host", "")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "jonbu_wfo")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	// Window defaults
	viper.SetDefault("window.train_months", 4)
	viper.SetDefault("window.test_months", 1)
	viper.SetDefault("window.step_months", 1)
	viper.SetDefault("window.warmup_bars", 240)

	// GA defaults
	viper.SetDefault("ga.population_size", 32)
	viper.SetDefault("ga.num_generations", 8)
	viper.SetDefault("ga.tournament_size", 3)
	viper.SetDefault("ga.crossover_rate", 0.8)
	viper.SetDefault("ga.mutation_rate", 0.15)
	viper.SetDefault("ga.mutation_sigma_pct", 0.10)
	viper.SetDefault("ga.elitism_count", 2)
	viper.SetDefault("ga.early_stopping_generations", 3)
	viper.SetDefault("ga.seed", 0)

	// Predictor defaults
	viper.SetDefault("predictor.model_path", "")

	// Server defaults
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("server.enable_cors", true)
}
