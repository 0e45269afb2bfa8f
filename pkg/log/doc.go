/*
Package log provides structured logging for Baekilha using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                           │
	│  ┌────────────────────────────────────────────┐           │
	│  │            Global Logger                   │           │
	│  │  - Zerolog instance                        │           │
	│  │  - Initialized via log.Init()              │           │
	│  │  - Thread-safe for concurrent use          │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │           Configuration                    │           │
	│  │  - Level: debug/info/warn/error            │           │
	│  │  - Format: JSON or console (human)         │           │
	│  │  - Output: stderr, file, or custom writer  │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │         Component Loggers                  │           │
	│  │  - WithComponent("fusion")                 │           │
	│  │  - WithPage("rank-members")                │           │
	│  │  - WithFeed("member_performance")          │           │
	│  └────────────────────────────────────────────┘           │
	└───────────────────────────────────────────────────────────┘

Console output goes to stderr by default so that rendered ranking tables on
stdout stay clean when output is piped.

# Usage

Initializing the Logger:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: false,
	})

Component Loggers:

	fusionLog := log.WithComponent("fusion")
	fusionLog.Warn().
		Str("feed", "member_bill_count").
		Err(err).
		Msg("feed failed, using defaults")

	pageLog := log.WithPage("rank-members")
	pageLog.Info().Int("entries", 300).Msg("snapshot applied")

# Integration Points

This package integrates with:

  - pkg/feeds: logs fetch retries and feed failures
  - pkg/fusion: logs join misses and default substitution
  - pkg/channel: logs transport degradation and dropped messages
  - pkg/snapshot: logs mode transitions
  - pkg/page: logs page lifecycle

# Best Practices

Do:
  - Use Info level by default; Debug only when diagnosing
  - Use structured fields for queryable data
  - Create component-specific loggers
  - Log errors with .Err() rather than string interpolation

Don't:
  - Log in tight loops (feed record parsing logs once per feed, not per row)
  - Concatenate strings (use .Str, .Int)

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
*/
package log
