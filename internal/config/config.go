package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type AuctionConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	AuctionDB    `yaml:"auction_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	Auth         `yaml:"auth"`
	Notifier     `yaml:"notifier"`
	Jobs         `yaml:"jobs"`
}

type HTTPServer struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env-default:"10s"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	EnablePprof    bool          `yaml:"enable_pprof"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type AuctionDB struct {
	Dsn            string `yaml:"dsn" env:"AUCTION_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"AUCTION_MIGRATIONS_PATH" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaService struct {
	Host               string `yaml:"host" env:"KAFKA_HOST"`
	Port               string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	GroupID            string `yaml:"group_id" env-default:"auction-service"`
	IngestTopic        string `yaml:"ingest_topic" env-default:"loads.ingested"`
	AwardTopic         string `yaml:"award_topic" env-default:"auction-events"`
	NotificationsTopic string `yaml:"notifications_topic" env-default:"carrier-notifications"`
}

// Enabled is false when no broker is configured; the service then runs on HTTP only.
func (k KafkaService) Enabled() bool {
	return k.Host != ""
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

type Notifier struct {
	WebhookURL string        `yaml:"webhook_url" env:"NOTIFIER_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout" env-default:"5s"`
}

type Jobs struct {
	MatchInterval   time.Duration `yaml:"match_interval" env-default:"10s"`
	ArchiveInterval time.Duration `yaml:"archive_interval" env-default:"5m"`
	// DeadlineInterval is how often deadline_approaching triggers are re-checked.
	DeadlineInterval time.Duration `yaml:"deadline_interval" env-default:"30s"`
	ChunkSize        int           `yaml:"chunk_size" env-default:"100"`
	ArchiveAfter     time.Duration `yaml:"archive_after" env-default:"24h"`
}

func MustLoad() *AuctionConfig {

	// Processing env config variable and file
	configPath := os.Getenv("AUCTION_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("AUCTION_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg AuctionConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
