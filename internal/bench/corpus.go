// Package bench evaluates prediction records stored across sharded text files.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jamesainslie/go-ftmeter/internal/record"
	"github.com/jamesainslie/go-ftmeter/shard"
)

// ShardStats describes one pass over a shard.
type ShardStats struct {
	Shard   int
	Lines   int   // records handed to the callback
	Skipped int   // lines that failed to parse
	Bytes   int64 // logical bytes consumed
}

// ReadShard parses every record line owned by shard out of shards and passes
// it to fn. A line is owned by the shard whose byte range contains its first
// byte, so reading every shard visits every line exactly once.
func ReadShard(ctx context.Context, paths []string, shardIdx, shards int, logger *slog.Logger, fn func(record.Example) error) (ShardStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stats := ShardStats{Shard: shardIdx}

	c, err := shard.Open(paths, shard.WithLogger(logger))
	if err != nil {
		return stats, err
	}
	defer func() { _ = c.Close() }() // Read-only handles

	start, err := c.Target(shardIdx, shards)
	if err != nil {
		return stats, err
	}
	end := c.Size()
	if shardIdx+1 < shards {
		if end, err = c.Target(shardIdx+1, shards); err != nil {
			return stats, err
		}
	}
	if start == end {
		return stats, nil
	}

	if err := c.SeekOffset(start); err != nil {
		return stats, err
	}
	if err := c.AlignLine(); err != nil {
		return stats, err
	}
	begin := c.Tell()

	for c.Tell() < end {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		r, err := c.Current()
		if err != nil {
			return stats, err
		}
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("reading shard %d: %w", shardIdx, err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		ex, err := record.Parse(line)
		if err != nil {
			stats.Skipped++
			logger.Warn("skipping malformed record", "shard", shardIdx, "offset", c.Tell(), "error", err)
			continue
		}
		stats.Lines++
		if err := fn(ex); err != nil {
			return stats, err
		}
	}

	stats.Bytes = c.Tell() - begin
	return stats, nil
}
