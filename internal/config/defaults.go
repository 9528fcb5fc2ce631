package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerMaxBodySize     = 1 << 20
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultServerChatRateLimit   = 30

	DefaultStoreDriver = "memory"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "consulttrack"
	DefaultDBMaxConns = 10
	DefaultDBSSLMode  = "disable"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "consulttrack:"

	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaGroupID    = "consulttrack-worker"
	DefaultKafkaClientID   = "consulttrack"
	DefaultKafkaTimeoutMS  = 10000
	DefaultKafkaMaxRetries = 3

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "consulttrack-transcripts"
	DefaultMinIORegion   = "us-east-1"
	DefaultPresignExpiry = 15 * time.Minute

	DefaultAgentBaseURL      = "http://localhost:8090"
	DefaultAgentID           = "69920c27a36c3292aec62958"
	DefaultAgentTimeout      = 60 * time.Second
	DefaultAgentMaxRetries   = 2
	DefaultAgentRetryWaitMin = 500 * time.Millisecond
	DefaultAgentRetryWaitMax = 5 * time.Second

	DefaultContextFormat         = "json"
	DefaultMaxClients            = 50
	DefaultMaxDeadlinesPerClient = 50
	DefaultCollationLocale       = "und"
	DefaultSummaryTTL            = 6 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "consulttrack"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly configured (non-zero) values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.ChatRateLimit == 0 {
		cfg.Server.ChatRateLimit = DefaultServerChatRateLimit
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	// ── Store / Database ──────────────────────────────────────────────────────
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.TimeoutMS == 0 {
		cfg.Kafka.TimeoutMS = DefaultKafkaTimeoutMS
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// ── Agent ─────────────────────────────────────────────────────────────────
	if cfg.Agent.BaseURL == "" {
		cfg.Agent.BaseURL = DefaultAgentBaseURL
	}
	if cfg.Agent.AgentID == "" {
		cfg.Agent.AgentID = DefaultAgentID
	}
	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = DefaultAgentTimeout
	}
	if cfg.Agent.MaxRetries == 0 {
		cfg.Agent.MaxRetries = DefaultAgentMaxRetries
	}
	if cfg.Agent.RetryWaitMin == 0 {
		cfg.Agent.RetryWaitMin = DefaultAgentRetryWaitMin
	}
	if cfg.Agent.RetryWaitMax == 0 {
		cfg.Agent.RetryWaitMax = DefaultAgentRetryWaitMax
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.ContextFormat == "" {
		cfg.Engine.ContextFormat = DefaultContextFormat
	}
	if cfg.Engine.MaxClients == 0 {
		cfg.Engine.MaxClients = DefaultMaxClients
	}
	if cfg.Engine.MaxDeadlinesPerClient == 0 {
		cfg.Engine.MaxDeadlinesPerClient = DefaultMaxDeadlinesPerClient
	}
	if cfg.Engine.CollationLocale == "" {
		cfg.Engine.CollationLocale = DefaultCollationLocale
	}
	if cfg.Engine.SummaryTTL == 0 {
		cfg.Engine.SummaryTTL = DefaultSummaryTTL
	}

	// ── Log / Metrics ─────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
