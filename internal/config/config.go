package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DataSourceDatabase = "database"
	DataSourceCSV      = "csv"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrMissingDataSource indica que a localização dos dados não foi configurada
var ErrMissingDataSource = errors.New("config: localização da fonte de dados não configurada")

// ConfigurationError descreve uma configuração ausente ou inválida detectada na inicialização
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Key)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	DataSource     DataSource     `mapstructure:",squash"`
	Query          Query          `mapstructure:",squash"`
	SnapshotReload SnapshotReload `mapstructure:",squash"`
	Cors           Cors           `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Path     string `mapstructure:"database_path"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	ReadOnly bool   `mapstructure:"-"`
}

type DataSource struct {
	Kind   string `mapstructure:"data_source"`
	CSVURL string `mapstructure:"csv_url"`
}

type App struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
}

type Query struct {
	DefaultPageSize int           `mapstructure:"query_default_page_size"`
	MaxPageSize     int           `mapstructure:"query_max_page_size"`
	Timeout         time.Duration `mapstructure:"query_timeout"`
}

type SnapshotReload struct {
	CronSchedule string `mapstructure:"snapshot_reload_cron"`
	Enabled      bool   `mapstructure:"snapshot_reload_enabled"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "")
	viper.SetDefault("PORT", 5000)

	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DATA_SOURCE", DataSourceDatabase)
	viper.SetDefault("CSV_URL", "")

	viper.SetDefault("DATABASE_DRIVER", DriverSQLite)
	viper.SetDefault("DATABASE_PATH", "data/sales.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "")

	viper.SetDefault("QUERY_DEFAULT_PAGE_SIZE", 10)
	viper.SetDefault("QUERY_MAX_PAGE_SIZE", 100)
	viper.SetDefault("QUERY_TIMEOUT", "10s")

	// Recarga do snapshot em memória (apenas DATA_SOURCE=csv)
	viper.SetDefault("SNAPSHOT_RELOAD_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("SNAPSHOT_RELOAD_ENABLED", false)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
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

	config.DataSource.Kind = strings.ToLower(strings.TrimSpace(config.DataSource.Kind))
	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.Cors.AllowedOrigins = trimAll(config.Cors.AllowedOrigins)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = buildDSN(config.Database)

	return config, nil
}

// Validate verifica se a fonte de dados configurada tem uma localização.
// Nenhuma requisição é atendida com a fonte ausente.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case DataSourceCSV:
		if strings.TrimSpace(c.DataSource.CSVURL) == "" {
			return &ConfigurationError{Key: "CSV_URL", Err: ErrMissingDataSource}
		}
	case DataSourceDatabase:
		switch c.Database.Driver {
		case DriverSQLite:
			if strings.TrimSpace(c.Database.Path) == "" {
				return &ConfigurationError{Key: "DATABASE_PATH", Err: ErrMissingDataSource}
			}
		case DriverPostgres:
			if strings.TrimSpace(c.Database.URL) == "" {
				return &ConfigurationError{Key: "DATABASE_URL", Err: ErrMissingDataSource}
			}
		default:
			return &ConfigurationError{
				Key: "DATABASE_DRIVER",
				Err: fmt.Errorf("config: driver não suportado %q", c.Database.Driver),
			}
		}
	default:
		return &ConfigurationError{
			Key: "DATA_SOURCE",
			Err: fmt.Errorf("config: fonte de dados não suportada %q", c.DataSource.Kind),
		}
	}

	return nil
}

// RequireCSV é usado pelo importador, que sempre lê o arquivo de origem
func (c *Config) RequireCSV() error {
	if strings.TrimSpace(c.DataSource.CSVURL) == "" {
		return &ConfigurationError{Key: "CSV_URL", Err: ErrMissingDataSource}
	}
	return nil
}

// IsDevelopment indica se detalhes de erros internos podem ser expostos
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.App.Env)
	return env == "development" || env == "dev"
}

func buildDSN(db Database) string {
	if db.Driver == DriverSQLite {
		return db.Path
	}

	if strings.HasPrefix(db.URL, "postgres://") || strings.HasPrefix(db.URL, "postgresql://") {
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

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
