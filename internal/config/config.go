package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Tipos de fonte de registros suportados
const (
	RecordSourceSQL      = "sql"
	RecordSourceSupabase = "supabase"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	RecordSource RecordSource `mapstructure:",squash"`
	Supabase     Supabase     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Admin        Admin        `mapstructure:",squash"`
	RateLimit    RateLimit    `mapstructure:",squash"`
	SnapshotSync SnapshotSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level" validate:"required"`
	Timezone string `mapstructure:"timezone" validate:"required"`
	Version  string `mapstructure:"app_version"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port" validate:"required,numeric"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver" validate:"oneof=postgres sqlite"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url" validate:"required"`
	User     string `mapstructure:"database_user"`
}

type RecordSource struct {
	Kind string `mapstructure:"record_source" validate:"oneof=sql supabase"`
}

type Supabase struct {
	URL               string        `mapstructure:"supabase_url"`
	APIKey            string        `mapstructure:"supabase_key"`
	Timeout           time.Duration `mapstructure:"supabase_timeout"`
	RequestsPerSecond float64       `mapstructure:"supabase_requests_per_second" validate:"gte=0"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Admin struct {
	KeyHash string `mapstructure:"admin_key_hash"`
}

type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"rate_limit_rps" validate:"gte=0"`
	Burst             int     `mapstructure:"rate_limit_burst" validate:"gte=0"`
}

type SnapshotSync struct {
	CronSchedule  string `mapstructure:"snapshot_sync_cron"`
	Enabled       bool   `mapstructure:"snapshot_sync_enabled"`
	RetentionDays int    `mapstructure:"snapshot_retention_days" validate:"gte=0"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("APP_VERSION", "2.1.0")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/margareth?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("RECORD_SOURCE", RecordSourceSQL)

	viper.SetDefault("SUPABASE_URL", "")
	viper.SetDefault("SUPABASE_KEY", "")
	viper.SetDefault("SUPABASE_TIMEOUT", "15s")
	viper.SetDefault("SUPABASE_REQUESTS_PER_SECOND", 10)

	viper.SetDefault("AUTH_SECRET", "")    // Vazio desabilita a validação de JWT
	viper.SetDefault("ADMIN_KEY_HASH", "") // Hash bcrypt da chave de administração

	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)

	viper.SetDefault("SNAPSHOT_SYNC_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("SNAPSHOT_SYNC_ENABLED", false)    // Habilitar fotografias diárias das métricas
	viper.SetDefault("SNAPSHOT_RETENTION_DAYS", 90)     // Fotografias mais antigas são removidas
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.RecordSource.Kind = strings.ToLower(strings.TrimSpace(config.RecordSource.Kind))
	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.Database.DSN = buildDSN(config.Database)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate confere as regras declaradas nas tags e as dependências entre seções
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: configuração inválida: %w", err)
	}

	if c.RecordSource.Kind == RecordSourceSupabase && (c.Supabase.URL == "" || c.Supabase.APIKey == "") {
		return fmt.Errorf("config: SUPABASE_URL e SUPABASE_KEY são obrigatórios quando RECORD_SOURCE=%s", RecordSourceSupabase)
	}

	return nil
}

// Location retorna o fuso horário usado para calcular "hoje"
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Fuso horário inválido: %s, usando horário local", c.App.Timezone)
		return time.Local
	}
	return loc
}

func buildDSN(db Database) string {
	if db.Driver == "sqlite" {
		return db.URL
	}

	return fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
