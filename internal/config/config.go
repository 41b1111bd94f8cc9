package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"planner"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string `envconfig:"PV_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress  string `envconfig:"PV_PLANNER_METRICS_ADDRESS" default:":8080"`
	LogLevel        string `envconfig:"PV_PLANNER_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"PV_PLANNER_MIGRATIONS_FOLDER" default:""`
	// PathPrefix is stripped from request paths forwarded by a gateway.
	PathPrefix string `envconfig:"PV_PLANNER_PATH_PREFIX" default:""`
	// CorsOrigins are the allowed browser origins of the configurator UI.
	CorsOrigins []string `envconfig:"PV_PLANNER_CORS_ORIGINS" default:"*"`
	// EventsBufferSize bounds the change events waiting to be written.
	EventsBufferSize int `envconfig:"PV_PLANNER_EVENTS_BUFFER_SIZE" default:"1024"`
	Catalog          catalogConfig
	Export           exportConfig
}

type catalogConfig struct {
	RefreshInterval time.Duration `envconfig:"PV_PLANNER_CATALOG_REFRESH_INTERVAL" default:"5m"`
	MemoSize        int           `envconfig:"PV_PLANNER_DERIVATION_MEMO_SIZE" default:"256"`
}

// exportConfig points at the S3 compatible bucket BOM exports are archived in.
// Uploads are disabled while Endpoint is empty.
type exportConfig struct {
	Endpoint  string `envconfig:"PV_PLANNER_EXPORT_S3_ENDPOINT" default:""`
	Bucket    string `envconfig:"PV_PLANNER_EXPORT_S3_BUCKET" default:"bom-exports"`
	AccessKey string `envconfig:"PV_PLANNER_EXPORT_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"PV_PLANNER_EXPORT_S3_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"PV_PLANNER_EXPORT_S3_USE_SSL" default:"true"`
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

// NewDefault returns a configuration backed by an in-memory sqlite database.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:          ":3443",
			MetricsAddress:   ":8080",
			LogLevel:         "debug",
			CorsOrigins:      []string{"*"},
			EventsBufferSize: 1024,
			Catalog: catalogConfig{
				RefreshInterval: 5 * time.Minute,
				MemoSize:        256,
			},
			Export: exportConfig{
				Bucket: "bom-exports",
				UseSSL: true,
			},
		},
	}
}
