package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr            string
	ShutdownTimeout     time.Duration
	MySQLDSN            string
	RedisURL            string
	RabbitMQURL         string
	RabbitExchange      string
	RabbitQueue         string
	RabbitRoutingKey    string
	RabbitConsumerTag   string
	RabbitPublishPrefix string
	SSEHeartbeat        time.Duration
	HistoryLimit        int
	OTELServiceName     string
	OTLPEndpoint        string
	OTLPInsecure        bool

	// WorkerID identifies this process in a multi-worker deployment.
	// Zero means standalone; worker 1 is the leader.
	WorkerID int

	APICacheDisable        bool
	APICachePrefix         string
	HTTPCacheTTL           int
	EnableCDNHeader        bool
	EnableForceCacheHeader bool
	MemoryCacheCapacity    int
	MemoryCacheMaxTTL      time.Duration
	CacheWriteBuffer       int

	AnalyticsDisable   bool
	AnalyticsKeyPrefix string
	AnalyticsBuffer    int
	// BotListFile is a JSON array of {"pattern": "..."} user agent regexps.
	BotListFile string

	ServerURL   string
	WebURL      string
	SEOTitle    string
	OwnerName   string
	OwnerAvatar string
	AdminToken  string

	FeatureEmailSubscribe bool
	MailEnable            bool
	MailHost              string
	MailPort              int
	MailUser              string
	MailPass              string
	MailTemplateDir       string
	MailSendTimeout       time.Duration
	MailConcurrency       int
}

// IsLeader reports whether this process owns leader-only state such as the
// subscriber registry.
func (c *Config) IsLeader() bool {
	return c.WorkerID <= 1
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:            ":8080",
		ShutdownTimeout:     10 * time.Second,
		SSEHeartbeat:        15 * time.Second,
		HistoryLimit:        20,
		RabbitExchange:      "blog.events",
		RabbitQueue:         "blog.events.leader",
		RabbitRoutingKey:    "event.#",
		RabbitConsumerTag:   "blog-leader",
		RabbitPublishPrefix: "event",
		OTELServiceName:     "blog-core",
		OTLPInsecure:        true,

		APICachePrefix:      "blog-api-cache:",
		HTTPCacheTTL:        15,
		MemoryCacheCapacity: 10000,
		MemoryCacheMaxTTL:   time.Hour,
		CacheWriteBuffer:    256,

		AnalyticsKeyPrefix: "blog:",
		AnalyticsBuffer:    256,
		BotListFile:        "assets/bot-list.json",

		ServerURL: "http://localhost:8080",
		WebURL:    "http://localhost:3000",
		SEOTitle:  "Blog",
		OwnerName: "owner",

		MailPort:        465,
		MailSendTimeout: 15 * time.Second,
		MailConcurrency: 4,
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")

	setString(&cfg.RabbitExchange, "RABBITMQ_EXCHANGE")
	setString(&cfg.RabbitQueue, "RABBITMQ_QUEUE")
	setString(&cfg.RabbitRoutingKey, "RABBITMQ_ROUTING_KEY")
	setString(&cfg.RabbitConsumerTag, "RABBITMQ_CONSUMER_TAG")
	setString(&cfg.RabbitPublishPrefix, "RABBITMQ_PUBLISH_PREFIX")

	setString(&cfg.OTELServiceName, "OTEL_SERVICE_NAME")
	setString(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.OTLPInsecure, "OTEL_EXPORTER_OTLP_INSECURE")

	if v := os.Getenv("CLUSTER_WORKER_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.WorkerID = n
		}
	}

	setBool(&cfg.APICacheDisable, "API_CACHE_DISABLE")
	setString(&cfg.APICachePrefix, "API_CACHE_PREFIX")
	setPositiveInt(&cfg.HTTPCacheTTL, "HTTP_CACHE_TTL")
	setBool(&cfg.EnableCDNHeader, "HTTP_CACHE_ENABLE_CDN_HEADER")
	setBool(&cfg.EnableForceCacheHeader, "HTTP_CACHE_ENABLE_FORCE_CACHE_HEADER")
	setPositiveInt(&cfg.MemoryCacheCapacity, "MEMORY_CACHE_CAPACITY")
	setSeconds(&cfg.MemoryCacheMaxTTL, "MEMORY_CACHE_MAX_TTL_SECONDS")
	setPositiveInt(&cfg.CacheWriteBuffer, "CACHE_WRITE_BUFFER")

	setBool(&cfg.AnalyticsDisable, "ANALYTICS_DISABLE")
	setString(&cfg.AnalyticsKeyPrefix, "ANALYTICS_KEY_PREFIX")
	setPositiveInt(&cfg.AnalyticsBuffer, "ANALYTICS_BUFFER")
	setString(&cfg.BotListFile, "BOT_LIST_FILE")

	setString(&cfg.ServerURL, "SERVER_URL")
	setString(&cfg.WebURL, "WEB_URL")
	setString(&cfg.SEOTitle, "SEO_TITLE")
	setString(&cfg.OwnerName, "OWNER_NAME")
	setString(&cfg.OwnerAvatar, "OWNER_AVATAR")
	setString(&cfg.AdminToken, "ADMIN_TOKEN")

	setBool(&cfg.FeatureEmailSubscribe, "FEATURE_EMAIL_SUBSCRIBE")
	setBool(&cfg.MailEnable, "MAIL_ENABLE")
	setString(&cfg.MailHost, "MAIL_HOST")
	setPositiveInt(&cfg.MailPort, "MAIL_PORT")
	setString(&cfg.MailUser, "MAIL_USER")
	setString(&cfg.MailPass, "MAIL_PASS")
	setString(&cfg.MailTemplateDir, "MAIL_TEMPLATE_DIR")
	setSeconds(&cfg.MailSendTimeout, "MAIL_SEND_TIMEOUT_SECONDS")
	setPositiveInt(&cfg.MailConcurrency, "MAIL_CONCURRENCY")

	setSeconds(&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT_SECONDS")
	setSeconds(&cfg.SSEHeartbeat, "SSE_HEARTBEAT_SECONDS")
	setPositiveInt(&cfg.HistoryLimit, "HISTORY_LIMIT")

	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setPositiveInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func setSeconds(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Second
		}
	}
}
