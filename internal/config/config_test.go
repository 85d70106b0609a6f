package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func validConfig() Config {
	return Config{
		Window: WindowConfig{TrainMonths: 4, TestMonths: 1, StepMonths: 1, WarmupBars: 240},
		GA:     GAConfig{PopulationSize: 32, ElitismCount: 2, TournamentSize: 3},
		Server: ServerConfig{HTTPPort: 8080},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateRejectsStepTestMismatch(t *testing.T) {
	c := validConfig()
	c.Window.StepMonths = 2
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for step_months != test_months")
	}
}

func TestValidateRejectsTrainPlusTestOverYear(t *testing.T) {
	c := validConfig()
	c.Window.TrainMonths = 11
	c.Window.TestMonths = 2
	c.Window.StepMonths = 2
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for train+test > 12")
	}
}

func TestValidateRejectsElitismAtOrAbovePopulation(t *testing.T) {
	c := validConfig()
	c.GA.ElitismCount = 32
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for elitism_count >= population_size")
	}
}

func TestValidateRejectsTournamentLargerThanPopulation(t *testing.T) {
	c := validConfig()
	c.GA.TournamentSize = 33
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for tournament_size > population_size")
	}
}

func TestValidateRequiresHTTPPort(t *testing.T) {
	c := validConfig()
	c.Server.HTTPPort = 0
	if err := c.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for a missing HTTP port")
	}
}

func TestHasTradeSink(t *testing.T) {
	c := validConfig()
	if c.HasTradeSink() {
		t.Error("HasTradeSink() = true for an empty Database.Host, want false")
	}
	c.Database.Host = "db.internal"
	if !c.HasTradeSink() {
		t.Error("HasTradeSink() = false with Database.Host set, want true")
	}
}

func TestStringMasksPassword(t *testing.T) {
	c := validConfig()
	c.Database.Password = "supersecret"
	s := c.String()
	if strings.Contains(s, "supersecret") {
		t.Error("String() leaked the database password")
	}
	if !strings.Contains(s, "***") {
		t.Error("String() did not mask the password with ***")
	}
}

func TestLoadAppliesDefaultsWithNoEnv(t *testing.T) {
	viper.Reset()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.TrainMonths != 4 {
		t.Errorf("Window.TrainMonths = %d, want default 4", cfg.Window.TrainMonths)
	}
	if cfg.GA.PopulationSize != 32 {
		t.Errorf("GA.PopulationSize = %d, want default 32", cfg.GA.PopulationSize)
	}
	if cfg.HasTradeSink() {
		t.Error("HasTradeSink() = true with no DATABASE_HOST set, want false")
	}
}

func TestLoadHonorsEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("GA_POPULATION_SIZE", "64")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("WINDOW_TRAIN_MONTHS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GA.PopulationSize != 64 {
		t.Errorf("GA.PopulationSize = %d, want 64 from env override", cfg.GA.PopulationSize)
	}
	if !cfg.HasTradeSink() {
		t.Error("HasTradeSink() = false with DATABASE_HOST set, want true")
	}
	if cfg.Window.TrainMonths != 6 {
		t.Errorf("Window.TrainMonths = %d, want 6 from env override", cfg.Window.TrainMonths)
	}
}
