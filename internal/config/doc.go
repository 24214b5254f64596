// Loads the tool's configuration file.
//
// The file is a small YAML document holding the staging directory and the
// registry mirror list. On first use a commented template is written so the
// user has something concrete to edit. Environment variables prefixed with
// IMGPACK_ (optionally via a .env file) override the file's values.
package config
