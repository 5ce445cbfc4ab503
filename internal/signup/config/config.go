// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/innovationmech/signup/pkg/lifecycle"
	"github.com/spf13/viper"
)

// SignupConfig is the configuration of the signup service.
type SignupConfig struct {
	Server struct {
		Port            string        `json:"port" yaml:"port" mapstructure:"port"`
		ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout" mapstructure:"shutdownTimeout"`
		EnableStop      bool          `json:"enableStop" yaml:"enableStop" mapstructure:"enableStop"`
		CORSOrigins     []string      `json:"corsOrigins" yaml:"corsOrigins" mapstructure:"corsOrigins"`
	} `json:"server" yaml:"server" mapstructure:"server"`
	Database struct {
		Username string                  `json:"username" yaml:"username" mapstructure:"username"`
		Password string                  `json:"password" yaml:"password" mapstructure:"password"`
		Host     string                  `json:"host" yaml:"host" mapstructure:"host"`
		Port     string                  `json:"port" yaml:"port" mapstructure:"port"`
		DBName   string                  `json:"dbname" yaml:"dbname" mapstructure:"dbname"`
		DSN      string                  `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
		Connect  lifecycle.ConnectConfig `json:"connect" yaml:"connect" mapstructure:"connect"`
	} `json:"database" yaml:"database" mapstructure:"database"`
	Redis struct {
		Addr     string        `json:"addr" yaml:"addr" mapstructure:"addr"`
		Password string        `json:"password" yaml:"password" mapstructure:"password"`
		DB       int           `json:"db" yaml:"db" mapstructure:"db"`
		LockTTL  time.Duration `json:"lockTTL" yaml:"lockTTL" mapstructure:"lockTTL"`
	} `json:"redis" yaml:"redis" mapstructure:"redis"`
	SMTP struct {
		Host     string `json:"host" yaml:"host" mapstructure:"host"`
		Port     int    `json:"port" yaml:"port" mapstructure:"port"`
		Secure   bool   `json:"secure" yaml:"secure" mapstructure:"secure"`
		Username string `json:"username" yaml:"username" mapstructure:"username"`
		Password string `json:"password" yaml:"password" mapstructure:"password"`
		From     string `json:"from" yaml:"from" mapstructure:"from"`
		To       string `json:"to" yaml:"to" mapstructure:"to"`
	} `json:"smtp" yaml:"smtp" mapstructure:"smtp"`
	Logging struct {
		Level       string `json:"level" yaml:"level" mapstructure:"level"`
		Development bool   `json:"development" yaml:"development" mapstructure:"development"`
	} `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DatabaseDSN returns the MySQL DSN, preferring an explicit dsn setting.
func (c *SignupConfig) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.Username, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.DBName)
}

// Validate checks the settings the service cannot start without.
func (c *SignupConfig) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdownTimeout must be positive")
	}
	if c.Database.DSN == "" && c.Database.Host == "" {
		return errors.New("database.host or database.dsn is required")
	}
	if err := c.Database.Connect.Validate(); err != nil {
		return fmt.Errorf("database.connect: %w", err)
	}
	return nil
}

var (
	cfg  *SignupConfig
	once sync.Once
)

// GetConfig loads signup.yaml from the working directory (or $SIGNUP_CONFIG)
// once and returns the shared configuration.
func GetConfig() *SignupConfig {
	once.Do(func() {
		loaded, err := Load(os.Getenv("SIGNUP_CONFIG"))
		if err != nil {
			panic(fmt.Errorf("FATAL ERROR CONFIG FILE: %w", err))
		}
		cfg = loaded
	})
	return cfg
}

// Load reads the configuration from path, or from signup.yaml in the
// working directory when path is empty. A missing file is not an error:
// defaults and environment variables still apply.
func Load(path string) (*SignupConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SIGNUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("signup")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &SignupConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("UNABLE TO DECODE INTO STRUCT: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	connect := lifecycle.DefaultConnectConfig()

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.enableStop", false)
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "myProject")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.connect.maxAttempts", connect.MaxAttempts)
	v.SetDefault("database.connect.delay", connect.Delay)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lockTTL", 10*time.Second)
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 1025)
	v.SetDefault("smtp.secure", false)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "test@example.com")
	v.SetDefault("smtp.to", "user@example.com")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// bindLegacyEnv keeps the unprefixed variables deployments already set.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SIGNUP_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.dsn", "SIGNUP_DATABASE_DSN", "DATABASE_DSN")
	_ = v.BindEnv("smtp.host", "SIGNUP_SMTP_HOST", "SMTP_HOST")
	_ = v.BindEnv("smtp.port", "SIGNUP_SMTP_PORT", "SMTP_PORT")
	_ = v.BindEnv("smtp.secure", "SIGNUP_SMTP_SECURE", "SMTP_SECURE")
	_ = v.BindEnv("smtp.from", "SIGNUP_SMTP_FROM", "MAIL_FROM")
	_ = v.BindEnv("smtp.to", "SIGNUP_SMTP_TO", "MAIL_TO")
}
