// Package lochness evaluates Lochness sync freshness for a network and raises
// overdue alerts through the configured notification channels.
package lochness
