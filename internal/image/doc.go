// Parses and renders container image references.
//
// References here are deliberately simpler than the full distribution
// grammar: user input is split at the first colon and sanitized rather than
// rejected, then the assembled pull reference is validated against the real
// grammar before any command runs. The package also owns the architecture
// catalog and the naming scheme for archive files.
package image
