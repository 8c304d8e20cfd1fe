// Package logparse extracts runtimes, timestamps, and outcome classifications
// from pipeline log files produced by tracker runs.
package logparse
