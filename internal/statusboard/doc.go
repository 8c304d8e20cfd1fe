// Package statusboard persists tracker outcomes in a local SQLite database.
//
// It stores per-site task results and per-network sync completion timestamps,
// giving the lochness tracker a durable record of when log tracking last
// finished for each network.
package statusboard
