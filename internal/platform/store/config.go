package store

import (
	"time"

	"missionsync/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	// PG is the local mission store
	PG PGConfig
	// Archive is the external archive, reached through its own pool
	Archive PGConfig
	// CH holds the run journal
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs:
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// Role tags the client info, e.g. "api" or "sync"
	Role string
}

// Env reads the three backends from environment under root
// SERVICE_PGSQL_DBURL is required; SERVICE_ARCHIVE_DBURL and SERVICE_CLICKHOUSE_DBURL
// switch their backend on when set
func Env(root config.Conf, app, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ar := root.Prefix("SERVICE_ARCHIVE_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	archiveURL := ar.MayString("DBURL", "")
	chURL := ch.MayString("DBURL", "")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", true),
		},
		Archive: PGConfig{
			Enabled:     archiveURL != "",
			URL:         archiveURL,
			MaxConns:    int32(ar.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: ar.MayInt("SLOW_MS", 2000),
			LogSQL:      ar.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
			Role:    role,
		},
	}
}
