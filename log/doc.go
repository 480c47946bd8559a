// Package log provides the structured logging used by every toolconf
// package. It is a thin layer over [log/slog].
//
// Configure runs report their progress the way configure scripts always
// have: "checking for X... result" lines, notices about user-supplied
// values and warnings about ignored ones. The package adds a [LevelNotice]
// between info and warn for the middle category.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("checking for CC", slog.String("result", "/usr/bin/gcc"))
//	logger.Warn("ignoring value from the environment", slog.String("var", "CC"))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("none"))
//
// The package-level functions ([Info], [Warn], ...) write through a default
// logger that the CLI reconfigures with [Config] as flags are parsed.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With pretty
// printing enabled, text output is styled with lipgloss. Styling degrades to
// plain text when the output is not a terminal.
package log
