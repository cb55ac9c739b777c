package module

import (
	"time"

	"missionsync/internal/platform/config"
	msvc "missionsync/internal/services/missions/service"
)

// Options for the missions module
type Options struct {
	Partition        int
	StatementTimeout time.Duration
}

// FromConfig fills options from environment
// CORE_MERGE_PARTITION (default 20) is the only data-center code merges may touch
// CORE_MERGE_STATEMENT_TIMEOUT (default 60s, 0 for the server default) caps each statement
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("CORE_MERGE_")
	return Options{
		Partition:        n.MayInt("PARTITION", msvc.DefaultPartition),
		StatementTimeout: n.MayDuration("STATEMENT_TIMEOUT", time.Minute),
	}
}
