package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Storage  *storageConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"recap"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"RECAP_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"RECAP_PLANNER_METRICS_ADDRESS" default:":8080"`
	BaseUrl        string `envconfig:"RECAP_PLANNER_BASE_URL" default:"https://localhost:3443"`
	LogLevel       string `envconfig:"RECAP_PLANNER_LOG_LEVEL" default:"info"`

	// JobRetention is the window between a job's creation and its expiry.
	JobRetention time.Duration `envconfig:"RECAP_PLANNER_JOB_RETENTION" default:"720h"`
	// ChapterEncodingEstimate feeds a job's estimatedCompletionTime at creation.
	ChapterEncodingEstimate time.Duration `envconfig:"RECAP_PLANNER_CHAPTER_ENCODING_ESTIMATE" default:"90s"`
	// ExpirySweepInterval drives the background scrubber that applies the
	// expiry override to jobs nobody polls anymore.
	ExpirySweepInterval time.Duration `envconfig:"RECAP_PLANNER_EXPIRY_SWEEP_INTERVAL" default:"5m"`

	Auth Auth
}

type storageConfig struct {
	Endpoint  string `envconfig:"RECAP_PLANNER_S3_ENDPOINT" default:"localhost:9000"`
	Bucket    string `envconfig:"RECAP_PLANNER_S3_BUCKET" default:"recap-media"`
	AccessKey string `envconfig:"RECAP_PLANNER_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"RECAP_PLANNER_S3_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"RECAP_PLANNER_S3_USE_SSL" default:"false"`

	ProbeTimeout time.Duration `envconfig:"RECAP_PLANNER_PROBE_TIMEOUT" default:"5s"`
	// AllowOptimisticReadyOnStorageError maps connectivity-class probe
	// failures to an optimistic "ready" video status. Meant for local
	// development where storage credentials are known to be absent.
	AllowOptimisticReadyOnStorageError bool `envconfig:"RECAP_PLANNER_ALLOW_OPTIMISTIC_READY" default:"false"`
}

type Auth struct {
	AuthenticationType string `envconfig:"RECAP_PLANNER_AUTH" default:""`
	JwkCertURL         string `envconfig:"RECAP_PLANNER_JWK_URL" default:""`
}

// NewDefault returns a configuration backed by an in-memory sqlite
// database. It is meant for tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "sqlite", Name: "file::memory:?cache=shared"},
		Service: &svcConfig{
			Address:                 ":3443",
			MetricsAddress:          ":8080",
			BaseUrl:                 "https://localhost:3443",
			LogLevel:                "info",
			JobRetention:            720 * time.Hour,
			ChapterEncodingEstimate: 90 * time.Second,
			ExpirySweepInterval:     5 * time.Minute,
		},
		Storage: &storageConfig{
			Endpoint:     "localhost:9000",
			Bucket:       "recap-media",
			ProbeTimeout: 5 * time.Second,
		},
	}
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
