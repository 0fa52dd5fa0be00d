// Package config собирает настройки сервиса из переменных окружения,
// .env-файлов и флагов командной строки.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Ключи viper. Переменные окружения называются так же, но в верхнем регистре.
const (
	KeyPort              = "port"
	KeySeedFile          = "seed_file"
	KeyAllowedOrigins    = "allowed_origins"
	KeyRequestTimeout    = "request_timeout"
	KeyLogLevel          = "log_level"
	KeyLegacyGenreFilter = "legacy_genre_filter"
)

// DefaultAllowedOrigins — origin'ы, которым по умолчанию отдаём CORS-заголовки.
var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:8081",
	"http://localhost:8082",
	"http://localhost:1234",
}

// Config — настройки сервиса.
type Config struct {
	Port              int
	SeedFile          string
	AllowedOrigins    []string
	RequestTimeout    time.Duration
	LogLevel          string
	LegacyGenreFilter bool
}

// Addr — адрес для http.Server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// New создаёт viper с дефолтами и чтением окружения.
//
// .env и .env.local подгружаются, если лежат в рабочей директории;
// godotenv не перетирает уже выставленные переменные, так что окружение важнее.
func New() *viper.Viper {
	loadDotEnv(".env", ".env.local")

	v := viper.New()
	v.SetDefault(KeyPort, 1234)
	v.SetDefault(KeySeedFile, "movies.json")
	v.SetDefault(KeyAllowedOrigins, strings.Join(DefaultAllowedOrigins, ","))
	v.SetDefault(KeyRequestTimeout, "2s")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLegacyGenreFilter, false)
	v.AutomaticEnv()
	return v
}

func loadDotEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", f, err)
		}
	}
}

// Load читает и проверяет настройки из v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		SeedFile:          v.GetString(KeySeedFile),
		LogLevel:          strings.ToLower(v.GetString(KeyLogLevel)),
		LegacyGenreFilter: v.GetBool(KeyLegacyGenreFilter),
	}

	port, err := strconv.Atoi(strings.TrimSpace(v.GetString(KeyPort)))
	if err != nil || port < 1 || port > 65535 {
		return cfg, fmt.Errorf("invalid PORT %q", v.GetString(KeyPort))
	}
	cfg.Port = port

	timeout, err := time.ParseDuration(v.GetString(KeyRequestTimeout))
	if err != nil || timeout <= 0 {
		return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT %q", v.GetString(KeyRequestTimeout))
	}
	cfg.RequestTimeout = timeout

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.SeedFile == "" {
		return cfg, fmt.Errorf("SEED_FILE must not be empty")
	}

	cfg.AllowedOrigins = splitList(v.GetString(KeyAllowedOrigins))
	return cfg, nil
}

// splitList режет список через запятую; viper сам режет только по пробелам.
func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
