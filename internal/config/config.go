package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port                string `mapstructure:"port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	Development         bool   `mapstructure:"development"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaCfg struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type S3Cfg struct {
	Region     string `mapstructure:"region"`
	Bucket     string `mapstructure:"bucket"`
	Endpoint   string `mapstructure:"endpoint"`
	PublicRead bool   `mapstructure:"public_read"`
}

type JWTCfg struct {
	PublicKeyPath string `mapstructure:"public_key_path"`
}

type PresenceCfg struct {
	HeartbeatSeconds    int `mapstructure:"heartbeat_seconds"`
	OfflineAfterSeconds int `mapstructure:"offline_after_seconds"`
	TypingTTLSeconds    int `mapstructure:"typing_ttl_seconds"`
}

type OutboxCfg struct {
	PollSeconds int `mapstructure:"poll_seconds"`
	MaxAttempts int `mapstructure:"max_attempts"`
	BatchSize   int `mapstructure:"batch_size"`
}

type RateLimitCfg struct {
	Limit         int `mapstructure:"limit"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

type Config struct {
	Server    ServerCfg    `mapstructure:"server"`
	Mongo     MongoCfg     `mapstructure:"mongo"`
	Redis     RedisCfg     `mapstructure:"redis"`
	Kafka     KafkaCfg     `mapstructure:"kafka"`
	S3        S3Cfg        `mapstructure:"s3"`
	JWT       JWTCfg       `mapstructure:"jwt"`
	Presence  PresenceCfg  `mapstructure:"presence"`
	Outbox    OutboxCfg    `mapstructure:"outbox"`
	RateLimit RateLimitCfg `mapstructure:"rate_limit"`

	// Derived
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PresenceTimeout time.Duration
	TypingTTL       time.Duration
	OutboxInterval  time.Duration
	RateLimitWindow time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// config file is optional; env and defaults carry a bare deployment
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second
	cfg.PresenceTimeout = time.Duration(cfg.Presence.OfflineAfterSeconds) * time.Second
	cfg.TypingTTL = time.Duration(cfg.Presence.TypingTTLSeconds) * time.Second
	cfg.OutboxInterval = time.Duration(cfg.Outbox.PollSeconds) * time.Second
	cfg.RateLimitWindow = time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "campuslink")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "campuslink")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "chat-events")
	v.SetDefault("kafka.group_id", "campuslink-ws")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "campuslink-media")
	v.SetDefault("presence.heartbeat_seconds", 30)
	v.SetDefault("presence.offline_after_seconds", 90)
	v.SetDefault("presence.typing_ttl_seconds", 3)
	v.SetDefault("outbox.poll_seconds", 5)
	v.SetDefault("outbox.max_attempts", 10)
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("rate_limit.limit", 60)
	v.SetDefault("rate_limit.window_seconds", 60)
}
