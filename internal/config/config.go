// Package config 加载配置：先读 YAML 文件，再被环境变量覆盖，最后补默认值并校验。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// 配置路径
const (
	defaultConfigPath = "config.yaml"
	envConfigPath     = "CONFIG_PATH"
)

// 东方财富涨停池接口默认值
const (
	defaultAPIBaseURL  = "https://push2ex.eastmoney.com"
	defaultAPITimeout  = 10 * time.Second
	defaultMaxAttempts = 1
	defaultRequestGap  = 200 * time.Millisecond
	defaultRunTimeout  = 2 * time.Minute
)

type Config struct {
	API    API    `yaml:"api" split_words:"true"`
	SMTP   SMTP   `yaml:"smtp" split_words:"true"`
	Output Output `yaml:"output" split_words:"true"`
}

// API 数据源请求参数。MaxAttempts 为单次拉取的总尝试次数，1 表示失败即返回。
// RequestGap 未配置时取默认值，显式配置为 0 表示不节流。
type API struct {
	BaseURL     string         `yaml:"base_url" split_words:"true" validate:"required,url"`
	Timeout     time.Duration  `yaml:"timeout" split_words:"true" validate:"gt=0"`
	MaxAttempts int            `yaml:"max_attempts" split_words:"true" validate:"min=1,max=5"`
	RequestGap  *time.Duration `yaml:"request_gap" split_words:"true" validate:"omitempty,gte=0"`
	RunTimeout  time.Duration  `yaml:"run_timeout" split_words:"true" validate:"gt=0"`
}

type Output struct {
	XLSXPath string `yaml:"xlsx_path" split_words:"true"`
}

// Path 配置文件路径：显式传入 > CONFIG_PATH > config.yaml
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return defaultConfigPath
}

// Load 读取配置。文件不存在不是错误，按环境变量与默认值继续。
func Load(path string) (*Config, error) {
	cfg := &Config{}
	b, err := os.ReadFile(Path(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", Path(path), err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", Path(path), err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	if v := os.Getenv(envSMTPAuthCode); v != "" {
		cfg.SMTP.Password = v
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 仅含默认值的配置，Load 失败时使用。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Gap 两次请求的最小间隔
func (a API) Gap() time.Duration {
	if a.RequestGap == nil {
		return defaultRequestGap
	}
	return *a.RequestGap
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Timeout == 0 {
		c.API.Timeout = defaultAPITimeout
	}
	if c.API.MaxAttempts == 0 {
		c.API.MaxAttempts = defaultMaxAttempts
	}
	if c.API.RequestGap == nil {
		gap := defaultRequestGap
		c.API.RequestGap = &gap
	}
	if c.API.RunTimeout == 0 {
		c.API.RunTimeout = defaultRunTimeout
	}
	if c.SMTP.From == "" && validate.Var(c.SMTP.User, "required,email") == nil {
		c.SMTP.From = c.SMTP.User
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
