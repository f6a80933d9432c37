package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var singleton = sync.OnceValue(func() *Config {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// DatabaseOptions configura la conexión a la base de datos. Por defecto se
// usa un archivo SQLite local; PostgreSQL queda disponible para instalaciones
// compartidas.
type DatabaseOptions struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	Path     string `env:"DB_PATH" envDefault:"horarios.db"`
	Name     string `env:"DB_NAME" envDefault:"horarios"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

// ConnectionString construye el DSN de PostgreSQL.
func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type Config struct {
	Database DatabaseOptions

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Interactivo controla si la desambiguación de nombres puede preguntar
	// por consola; en falso se usa siempre la opción por defecto (apellido
	// compuesto).
	Interactivo bool `env:"NOMBRES_INTERACTIVO" envDefault:"false"`

	logger *logrus.Logger
}

// Use retorna la configuración global, cargándola la primera vez.
func Use() *Config {
	return singleton()
}

// Load carga variables desde los archivos .env existentes y el entorno.
func Load(envFiles []string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("error cargando archivos .env: %w", err)
		}
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}

	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "postgres":
		c.Database.Driver = strings.ToLower(c.Database.Driver)
	default:
		return nil, fmt.Errorf("DB_DRIVER inválido: %q (se espera sqlite o postgres)", c.Database.Driver)
	}

	logger := logrus.New()
	logger.SetLevel(c.logrusLevel())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	c.logger = logger

	return c, nil
}

// Logger retorna el logger configurado según LOG_LEVEL.
func (c *Config) Logger() *logrus.Logger {
	return c.logger
}

func (c *Config) logrusLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
