package cfg

type Cfg struct {
	// MongoDB configuration
	MongoURI string
	DBName   string

	// Redis cache (source group caching is skipped when empty)
	RedisAddr string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Pipeline tuning
	FetchTimeout      int
	SourceConcurrency int
	RateLimitMinMs    int
	RateLimitBurst    int
	FetchRetries      int
	TensionWindow     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
