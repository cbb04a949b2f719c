package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/optionrisk/pkg/cache"
	"github.com/wyfcoding/optionrisk/pkg/config"
	"github.com/wyfcoding/optionrisk/pkg/db"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/mq"
)

// loadConfig 读取 --config 并初始化全局日志
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(loggerConfig(cfg.Logger)); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}

func loggerConfig(c config.LoggerConfig) logger.Config {
	return logger.Config{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		FilePath:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
		WithCaller: c.WithCaller,
	}
}

func dbConfig(c config.DatabaseConfig) db.Config {
	return db.Config{
		Driver:             c.Driver,
		DSN:                c.DSN,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetime:    c.ConnMaxLifetime,
		LogEnabled:         c.LogEnabled,
		SlowQueryThreshold: c.SlowQueryThreshold,
	}
}

func cacheConfig(c config.RedisConfig) cache.Config {
	return cache.Config{
		Host:         c.Host,
		Port:         c.Port,
		Password:     c.Password,
		DB:           c.DB,
		MaxPoolSize:  c.MaxPoolSize,
		ConnTimeout:  c.ConnTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

func kafkaConfig(c config.KafkaConfig) mq.KafkaConfig {
	return mq.KafkaConfig{
		Brokers:      c.Brokers,
		MaxRetries:   c.MaxRetries,
		RetryBackoff: c.RetryBackoff,
	}
}
