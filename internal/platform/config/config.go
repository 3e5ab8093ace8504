package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	strutil "unionhub/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// AutoTick applies advisory election transitions before each request.
	AutoTick bool
	PhotoDir string
	// AdminToken guards the operator endpoints; empty disables them.
	AdminToken string
}

// RedisConfig configures the optional Redis client backing the OTP throttle.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit outbox relay. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers      []string
	AuditTopic   string
	PollInterval time.Duration
	BatchSize    int
}

// MailConfig configures OTP delivery. Empty Addr logs codes instead of sending.
type MailConfig struct {
	Addr     string
	From     string
	Username string
	Password string
}

// Workflow holds the time and attempt limits of the voting protocol.
type Workflow struct {
	OTPTTL            time.Duration
	OTPMaxAttempts    int
	CastWindow        time.Duration
	OTPRequestLimit   int
	OTPRequestWindow  time.Duration
	PendingPageSize   int
	ThrottleThreshold int
}

type Config struct {
	Server      Server
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Mail        MailConfig
	Workflow    Workflow
	LogLevel    string
}

// DefaultWorkflow returns the protocol limits used when no override is set.
func DefaultWorkflow() Workflow {
	return Workflow{
		OTPTTL:            5 * time.Minute,
		OTPMaxAttempts:    3,
		CastWindow:        10 * time.Minute,
		OTPRequestLimit:   5,
		OTPRequestWindow:  15 * time.Minute,
		PendingPageSize:   50,
		ThrottleThreshold: 5,
	}
}

// Load reads an optional .env file and then builds Config from the environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	wf := DefaultWorkflow()
	wf.OTPTTL = envDuration("OTP_TTL", wf.OTPTTL)
	wf.OTPMaxAttempts = envInt("OTP_MAX_ATTEMPTS", wf.OTPMaxAttempts)
	wf.CastWindow = envDuration("VOTE_CAST_WINDOW", wf.CastWindow)
	wf.OTPRequestLimit = envInt("OTP_REQUEST_LIMIT", wf.OTPRequestLimit)
	wf.OTPRequestWindow = envDuration("OTP_REQUEST_WINDOW", wf.OTPRequestWindow)

	return Config{
		Server: Server{
			Addr: envString("UNIONHUB_ADDR", ":8080"),
			// Development default; production deployments must override it.
			JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envString("JWT_ISSUER", "unionhub"),
			JWTAudience:   envString("JWT_AUDIENCE", "unionhub-api"),
			AutoTick:      os.Getenv("AUTO_TICK") == "true",
			PhotoDir:      envString("PHOTO_DIR", "./data/photos"),
			AdminToken:    os.Getenv("ADMIN_API_TOKEN"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      strutil.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			AuditTopic:   envString("AUDIT_TOPIC", "unionhub.audit"),
			PollInterval: envDuration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    envInt("OUTBOX_BATCH_SIZE", 100),
		},
		Mail: MailConfig{
			Addr:     os.Getenv("SMTP_ADDR"),
			From:     envString("SMTP_FROM", "elections@unionhub.local"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Workflow: wf,
		LogLevel: envString("LOG_LEVEL", "info"),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
