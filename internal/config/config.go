package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"prod"`
	ErrorLogPath string `yaml:"error_log_path" env:"ERROR_LOG_PATH" env-default:"errors.log"`
	HTTPServer   `yaml:"http_server"`
	DB           `yaml:"db"`

	AdminLogin  string   `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass   string   `yaml:"admin_pass" env:"ADMIN_PASS"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	FrontendDir string   `yaml:"frontend_dir" env:"FRONTEND_DIR" env-default:"./frontend-dist"`

	Plant  `yaml:"plant"`
	Report `yaml:"report"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DB: mysql для прода, sqlite для локального запуска и тестов.
type DB struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	User       string `yaml:"user" env:"DB_USER"`
	Password   string `yaml:"password" env:"DB_PASSWORD"`
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name       string `yaml:"name" env:"DB_NAME"`
	SQLitePath string `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"ops-costing.db"`
	Retries    uint64 `yaml:"retries" env-default:"5"`
}

type Plant struct {
	TimeZone string `yaml:"time_zone" env:"PLANT_TZ" env-default:"Europe/Istanbul"`
	Currency string `yaml:"currency" env:"PLANT_CURRENCY" env-default:"₺"`
}

type Report struct {
	Dir  string `yaml:"dir" env:"REPORT_DIR" env-default:"./reports"`
	Cron string `yaml:"cron" env:"REPORT_CRON" env-default:"0 6 1 * *"`
}

// Location: часовой пояс завода, в нём определяется смена.
func (p Plant) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", p.TimeZone, err)
	}
	return loc, nil
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read env: %w", err)
	}

	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("неизвестный драйвер БД: %q", cfg.DB.Driver)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
