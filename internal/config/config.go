package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// coachPasswordPattern requires at least 8 characters with a letter and a
// digit. Lookaheads need regexp2; the standard library rejects them.
const coachPasswordPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,72}$`

var errWeakCoachPassword = errors.New("coach password must be at least 8 characters and contain 1 letter and 1 number")

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	SMTP     *SMTPConfig     `mapstructure:"smtp"`
	Gin      *GinConfig      `mapstructure:"gin"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	CoachPassword      string `mapstructure:"coach_password"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

func Load(configFile string) (*AppConfig, error) {
	viper.SetConfigFile(configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name))
	})
	viper.WatchConfig()

	return conf, nil
}

func (c *AppConfig) Validate() error {
	err := validation.ValidateStruct(
		c,
		validation.Field(&c.API, validation.Required),
		validation.Field(&c.Postgres, validation.Required),
		validation.Field(&c.Gin, validation.Required),
	)
	if err != nil {
		return err
	}

	err = validation.ValidateStruct(
		c.API,
		validation.Field(&c.API.Environment, validation.Required),
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.JWTSigningKey, validation.Required),
		validation.Field(&c.API.CoachPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	passwordExp := regexp2.MustCompile(coachPasswordPattern, regexp2.None)
	if ok, _ := passwordExp.MatchString(c.API.CoachPassword); !ok {
		return errWeakCoachPassword
	}

	return nil
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DB)
}
