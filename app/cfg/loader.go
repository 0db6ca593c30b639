package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// MongoDB configuration
	MongoURI string `long:"mongo-uri" env:"MONGO_URI" default:"mongodb://localhost:27017" description:"MongoDB connection URI"`
	DBName   string `long:"db-name" env:"DB_NAME" default:"newswire" description:"MongoDB database name"`

	// Redis cache
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for source group caching (optional)"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for task processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler poll interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Pipeline tuning
	FetchTimeout      int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-request feed fetch timeout in seconds"`
	SourceConcurrency int `long:"source-concurrency" env:"SOURCE_CONCURRENCY" default:"3" description:"Maximum sources processed in parallel"`
	RateLimitMinMs    int `long:"rate-limit-min-ms" env:"RATE_LIMIT_MIN_MS" default:"100" description:"Minimum spacing between outbound requests in milliseconds"`
	RateLimitBurst    int `long:"rate-limit-burst" env:"RATE_LIMIT_BURST" default:"5" description:"Maximum burst of concurrent outbound requests"`
	FetchRetries      int `long:"fetch-retries" env:"FETCH_RETRIES" default:"2" description:"Retries per source fetch or persistence operation"`
	TensionWindow     int `long:"tension-window" env:"TENSION_WINDOW" default:"4" description:"Trailing window in hours for tension and keyword aggregates"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newswire/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		MongoURI:          raw.MongoURI,
		DBName:            raw.DBName,
		RedisAddr:         raw.RedisAddr,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		FetchTimeout:      raw.FetchTimeout,
		SourceConcurrency: raw.SourceConcurrency,
		RateLimitMinMs:    raw.RateLimitMinMs,
		RateLimitBurst:    raw.RateLimitBurst,
		FetchRetries:      raw.FetchRetries,
		TensionWindow:     raw.TensionWindow,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
