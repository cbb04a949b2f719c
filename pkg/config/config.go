// Package config 提供 TOML 配置加载、环境变量覆盖与校验
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 RISKGRID_HTTP_PORT
const EnvPrefix = "RISKGRID"

// DateLayout 配置中日期字段的格式
const DateLayout = "2006-01-02"

// Config 服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// gRPC 健康检查服务配置
	GRPC GRPCConfig `mapstructure:"grpc"`
	// 数据库配置（Assets / Options）
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	// 宽表缓存配置
	Cache CacheConfig `mapstructure:"cache"`
	// 网格配置
	Grid GridConfig `mapstructure:"grid"`
	// 合约配置
	Contract ContractConfig `mapstructure:"contract"`
	// 输出文件配置
	Output OutputConfig `mapstructure:"output"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// Addr 返回监听地址
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCConfig gRPC 服务配置
type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr 返回监听地址
func (c GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：sqlite, mysql, postgres
	Driver string `mapstructure:"driver"`
	// 数据源名称；sqlite 下为文件路径
	DSN                string `mapstructure:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    int    `mapstructure:"conn_max_lifetime"`
	LogEnabled         bool   `mapstructure:"log_enabled"`
	SlowQueryThreshold int    `mapstructure:"slow_query_threshold"`
}

// RedisConfig Redis 配置，Host 为空表示不启用
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	MaxPoolSize  int    `mapstructure:"max_pool_size"`
	ConnTimeout  int    `mapstructure:"conn_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// Enabled 是否配置了 Redis
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// KafkaConfig Kafka 配置，Brokers 为空表示不发布事件
type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	Topic        string   `mapstructure:"topic"`
	MaxRetries   int      `mapstructure:"max_retries"`
	RetryBackoff int      `mapstructure:"retry_backoff"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	QPS     int  `mapstructure:"qps"`
	Burst   int  `mapstructure:"burst"`
}

// CacheConfig 宽表缓存配置
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// TTL 返回缓存有效期
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GridConfig 网格配置
type GridConfig struct {
	// 到期日 YYYY-MM-DD
	ExpiryDate string `mapstructure:"expiry_date"`
	// 起始评估日 YYYY-MM-DD，为空表示今天
	StartDate string `mapstructure:"start_date"`
	SpotMin   int    `mapstructure:"spot_min"`
	SpotMax   int    `mapstructure:"spot_max"`
}

// Expiry 解析到期日
func (c GridConfig) Expiry() (time.Time, error) {
	return time.Parse(DateLayout, c.ExpiryDate)
}

// Start 解析起始日，未配置时返回零值
func (c GridConfig) Start() (time.Time, error) {
	if c.StartDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, c.StartDate)
}

// ContractConfig 合约参数，单次批处理内固定
type ContractConfig struct {
	Strike        float64 `mapstructure:"strike"`
	Volatility    float64 `mapstructure:"volatility"`
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
	DividendYield float64 `mapstructure:"dividend_yield"`
	// call 或 put
	OptionType string  `mapstructure:"option_type"`
	Multiplier float64 `mapstructure:"multiplier"`
	// market 或 analytic
	Convention string `mapstructure:"convention"`
}

// OutputConfig 平面文件配置
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// Load 从 TOML 文件加载配置，文件缺失时使用默认值，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required for %s driver", c.Database.Driver)
	}
	if _, err := c.Grid.Expiry(); err != nil {
		return fmt.Errorf("invalid grid.expiry_date %q: %w", c.Grid.ExpiryDate, err)
	}
	if _, err := c.Grid.Start(); err != nil {
		return fmt.Errorf("invalid grid.start_date %q: %w", c.Grid.StartDate, err)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "riskgrid")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 50051)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database/sample_database.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_pool_size", 10)
	v.SetDefault("redis.conn_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "riskgrid.surface.generated")
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/riskgrid.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.qps", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("grid.expiry_date", "2020-09-18")
	v.SetDefault("grid.start_date", "")
	v.SetDefault("grid.spot_min", 200)
	v.SetDefault("grid.spot_max", 350)

	v.SetDefault("contract.strike", 280.0)
	v.SetDefault("contract.volatility", 0.3)
	v.SetDefault("contract.risk_free_rate", 0.05)
	v.SetDefault("contract.dividend_yield", 0.0)
	v.SetDefault("contract.option_type", "call")
	v.SetDefault("contract.multiplier", 1000.0)
	v.SetDefault("contract.convention", "analytic")

	v.SetDefault("output.path", "data/spx_test.csv")
}
