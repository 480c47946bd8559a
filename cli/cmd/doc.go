// Package cmd implements the toolconf subcommands.
//
// Each command is a kong command struct whose Run method receives the
// context built by the cli package. The [kong.Context] travels inside that
// context (see [WithContext]) so commands can reach the parser model and
// its output writers.
package cmd

var (
	// CacheIdentifier is the kong variable holding the runtime cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the CLI
	// configuration file.
	ConfigIdentifier = "config"

	// ManifestIdentifier is the kong variable holding the default manifest
	// path.
	ManifestIdentifier = "manifest"

	// FormatEnumIdentifier is the kong variable holding the comma-separated
	// report formats.
	FormatEnumIdentifier = "reportFormatEnum"
)
