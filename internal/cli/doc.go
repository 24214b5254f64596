// Parses flags and dispatches imgpack commands.
//
// The tool accepts the following global flags:
//
//	-q, --quiet    Suppress informational output.
//	-d, --debug    Enable debug output.
//	-c, --config   Configuration file path.
//
// Subcommands cover the pull workflow, configuration inspection, and version
// reporting; pull is the default when no subcommand is given. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected command runs.
package cli
