package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"jwt"`

	ResetToken struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"reset_token"`

	AI struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"ai"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		ResetBaseURL string `yaml:"reset_base_url"`
	} `yaml:"email"`
}

// Load читает конфигурацию из config.yaml или из переменных окружения.
// Если задан DATABASE_URL, файл не читается вовсе (режим теста/CI).
func Load() *Config {
	_ = godotenv.Load()

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		cfg.applyDefaults()
		return &cfg
	}

	// Загрузка из переменных окружения (режим теста)
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTLMinutes = 30
	cfg.ResetToken.TTLMinutes = 60

	cfg.AI.APIKey = os.Getenv("AI_API_KEY")
	cfg.AI.Model = "gemini-1.5-flash"

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@anamny.com"
	cfg.Email.FromName = "Anamny Health Tracker"

	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.JWT.TTLMinutes <= 0 {
		c.JWT.TTLMinutes = 30
	}
	if c.ResetToken.TTLMinutes <= 0 {
		c.ResetToken.TTLMinutes = 60
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-1.5-flash"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
}
