package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	Auth struct {
		Secret string `yaml:"secret" env:"AUTHSECRET"`
	} `yaml:"auth"`
	Images struct {
		Dir     string `yaml:"dir" env:"IMAGESDIR" env-default:"images"`
		Width   int    `yaml:"width" env:"IMAGESWIDTH" env-default:"600"`
		Quality int    `yaml:"quality" env:"IMAGESQUALITY" env-default:"60"`
	} `yaml:"images"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
}

// Decode reads the app configuration from config.yml if the file exists,
// falling back to environment variables alone otherwise.
func Decode() (Config, error) {
	var cfg Config
	if _, err := os.Stat("config.yml"); err == nil {
		err = cleanenv.ReadConfig("config.yml", &cfg)
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
