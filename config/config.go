package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const EventsTopic = "restobar-events"

type Config struct {
	HTTPAddr      string
	NotifyAddr    string
	GatewayAddr   string
	PublicBaseURL string
	UploadDir     string

	OrderSvcURL  string
	NotifySvcURL string
	GatewayRPS   float64
	GatewayBurst int

	// Peers allowed to set X-Forwarded-For, as CIDRs or bare IPs.
	GatewayTrustedProxies []string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisAddr   string
	KafkaBroker string

	JWTSecret   string
	JWTTTL      time.Duration
	NotifyTTL   time.Duration
	LoginLimit  int
	LoginWindow time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// Load reads the environment, seeding it from a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8081"),
		NotifyAddr:    getEnv("NOTIFY_ADDR", ":8082"),
		GatewayAddr:   getEnv("GATEWAY_ADDR", ":8080"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),

		OrderSvcURL:  getEnv("ORDER_SVC_URL", "http://localhost:8081"),
		NotifySvcURL: getEnv("NOTIFY_SVC_URL", "http://localhost:8082"),
		GatewayRPS:   getFloat("GATEWAY_RPS", 10),
		GatewayBurst: getInt("GATEWAY_BURST", 20),

		GatewayTrustedProxies: getList("GATEWAY_TRUSTED_PROXIES"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "restobar"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),

		RedisAddr:   getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),

		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		JWTTTL:      getDuration("JWT_TTL", 24*time.Hour),
		NotifyTTL:   getDuration("NOTIFY_TIMEOUT", 3*time.Second),
		LoginLimit:  getInt("LOGIN_MAX_ATTEMPTS", 3),
		LoginWindow: getDuration("LOGIN_COOLDOWN", 2*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@restobar.local"),
	}
}

func NewLogger(service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", service).Logger()
}

func MustInitPostgres(cfg Config, logger zerolog.Logger) *sql.DB {
	connStr := "host=" + cfg.DBHost + " port=" + cfg.DBPort + " user=" + cfg.DBUser +
		" password=" + cfg.DBPassword + " dbname=" + cfg.DBName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Config, logger zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	return client
}

func NewKafkaReader(cfg Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f > 0 {
		return f
	}
	return defaultValue
}

func getList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
