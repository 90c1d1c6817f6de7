// Package config 加载员工管理工具的 HCL 配置文件。
package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"employeetracker/errors"
	"employeetracker/logging"
	"employeetracker/validation"
)

// DefaultPath 默认配置文件路径
const DefaultPath = "tracker.hcl"

// Config 工具配置
type Config struct {
	DataFile string        `hcl:"data_file,optional"`
	LogLevel string        `hcl:"log_level,optional"`
	SQLite   *SQLiteConfig `hcl:"sqlite,block"`
	Redis    *RedisConfig  `hcl:"redis,block"`
	NATS     *NATSConfig   `hcl:"nats,block"`
}

// SQLiteConfig SQLite 快照存储
type SQLiteConfig struct {
	Path string `hcl:"path"`
}

// RedisConfig Redis Streams 变更通知
type RedisConfig struct {
	Addr         string `hcl:"addr"`
	Username     string `hcl:"username,optional"`
	Password     string `hcl:"password,optional"`
	DB           int    `hcl:"db,optional"`
	StreamPrefix string `hcl:"stream_prefix,optional"`
	MaxLen       int64  `hcl:"max_len,optional"`
}

// NATSConfig NATS JetStream 变更通知
type NATSConfig struct {
	URL           string `hcl:"url"`
	Stream        string `hcl:"stream,optional"`
	SubjectPrefix string `hcl:"subject_prefix,optional"`
	MaxBytes      int64  `hcl:"max_bytes,optional"`
	Replicas      int    `hcl:"replicas,optional"`
}

// Default 返回默认配置（无外部存储和消息通道）
func Default() *Config {
	return &Config{
		DataFile: validation.DefaultFilePath,
		LogLevel: "info",
	}
}

// Load 读取 path 指定的配置文件；文件不存在时返回默认配置。
// 表达式中可通过 env.NAME 引用环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.WrapError(err, errors.ErrCodeIO, "stat config file").WithContext("path", path)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.WrapError(diags, errors.ErrCodeInvalidInput, "parse config file").WithContext("path", path)
	}
	if diags := gohcl.DecodeBody(file.Body, evalContext(), cfg); diags.HasErrors() {
		return nil, errors.WrapError(diags, errors.ErrCodeInvalidInput, "decode config file").WithContext("path", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": env}}
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataFile) == "" {
		c.DataFile = validation.DefaultFilePath
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.WrapError(err, errors.ErrCodeValidation, "invalid log_level")
	}
	if c.SQLite != nil {
		if err := validation.ValidateRequired(c.SQLite.Path, "sqlite.path"); err != nil {
			return err
		}
	}
	if c.Redis != nil {
		if err := validation.ValidateRequired(c.Redis.Addr, "redis.addr"); err != nil {
			return err
		}
		if c.Redis.DB < 0 || c.Redis.MaxLen < 0 {
			return errors.NewError(errors.ErrCodeValidation, "redis db and max_len must not be negative")
		}
	}
	if c.NATS != nil {
		if err := validation.ValidateRequired(c.NATS.URL, "nats.url"); err != nil {
			return err
		}
		if c.NATS.MaxBytes < 0 || c.NATS.Replicas < 0 {
			return errors.NewError(errors.ErrCodeValidation, "nats max_bytes and replicas must not be negative")
		}
	}
	return nil
}

// Level 返回解析后的日志级别
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
