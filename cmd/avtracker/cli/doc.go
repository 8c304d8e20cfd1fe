// Package cli wires the avtracker root command: configuration loading,
// structured logging, and the launch and tracker subcommands.
package cli
