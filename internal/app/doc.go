// Package app contains the core application logic. It loads plant files,
// resolves every plant against the site, prints a YAML report and records
// metrics, decoupled from any specific entrypoint like a CLI.
package app
