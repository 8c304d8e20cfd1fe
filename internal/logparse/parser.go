package logparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	runtimeMarkerConstant               = "Current time:"
	clockLayoutConstant                 = "15:04:05"
	pythonErrorMarkerConstant           = "ERROR:"
	tracebackMarkerConstant             = "Traceback"
	pipelineRejectionMarkerConstant     = "Exiting, please requeue"
	filenameTokenSeparatorConstant      = "_"
	filenameExtensionSeparatorConstant  = "."
	lineSeparatorConstant               = "\n"
	noFilesProvidedMessageConstant      = "no log files provided"
	logReadErrorTemplateConstant        = "failed to read log file: %w"
	runtimeParseErrorTemplateConstant   = "failed to parse runtime marker %q: %w"
	timestampParseErrorTemplateConstant = "failed to parse timestamp from filename %s: %w"
	missingTimestampMessageConstant     = "filename carries no timestamp token"
	statusNoErrorsConstant              = "No errors"
	statusEmptyLogConstant              = "Empty log file"
	statusPythonErrorConstant           = "Python Error"
	statusPipelineRejectedConstant      = "Pipeline Rejected"
	excerptLineCountConstant            = 20
)

// LogStatus classifies the outcome recorded in a log file.
type LogStatus string

// Supported log status classifications.
const (
	StatusNoErrors         LogStatus = LogStatus(statusNoErrorsConstant)
	StatusEmptyLog         LogStatus = LogStatus(statusEmptyLogConstant)
	StatusPythonError      LogStatus = LogStatus(statusPythonErrorConstant)
	StatusPipelineRejected LogStatus = LogStatus(statusPipelineRejectedConstant)
)

// ExtractRuntime derives the elapsed runtime recorded in a log file.
//
// Runs are bracketed by "Current time: HH:MM:SS" lines; the runtime is the
// difference between the first and last occurrence. Logs without runtime
// markers yield a zero duration.
func ExtractRuntime(logFilePath string) (time.Duration, error) {
	logLines, readError := readLogLines(logFilePath)
	if readError != nil {
		return 0, readError
	}

	runtimeLines := []string{}
	for _, logLine := range logLines {
		if strings.Contains(logLine, runtimeMarkerConstant) {
			runtimeLines = append(runtimeLines, logLine)
		}
	}

	if len(runtimeLines) == 0 {
		return 0, nil
	}

	firstClock, firstParseError := parseClockValue(runtimeLines[0])
	if firstParseError != nil {
		return 0, firstParseError
	}

	lastClock, lastParseError := parseClockValue(runtimeLines[len(runtimeLines)-1])
	if lastParseError != nil {
		return 0, lastParseError
	}

	return lastClock.Sub(firstClock), nil
}

// TimestampFromFilename parses the unix timestamp embedded as the trailing underscore token of a log filename.
func TimestampFromFilename(logFilePath string) (time.Time, error) {
	baseName := filepath.Base(logFilePath)

	nameTokens := strings.Split(baseName, filenameTokenSeparatorConstant)
	if len(nameTokens) < 2 {
		return time.Time{}, fmt.Errorf(timestampParseErrorTemplateConstant, baseName, errors.New(missingTimestampMessageConstant))
	}

	trailingToken := nameTokens[len(nameTokens)-1]
	timestampToken := strings.SplitN(trailingToken, filenameExtensionSeparatorConstant, 2)[0]

	unixSeconds, conversionError := strconv.ParseInt(timestampToken, 10, 64)
	if conversionError != nil {
		return time.Time{}, fmt.Errorf(timestampParseErrorTemplateConstant, baseName, conversionError)
	}

	return time.Unix(unixSeconds, 0), nil
}

// ClassifyLog inspects a log file and reports its outcome classification.
func ClassifyLog(logFilePath string) (LogStatus, error) {
	logLines, readError := readLogLines(logFilePath)
	if readError != nil {
		return StatusEmptyLog, readError
	}

	if len(logLines) == 0 {
		return StatusEmptyLog, nil
	}

	for _, logLine := range logLines {
		if strings.Contains(logLine, pythonErrorMarkerConstant) || strings.Contains(logLine, tracebackMarkerConstant) {
			return StatusPythonError, nil
		}
	}

	for _, logLine := range logLines {
		if strings.Contains(logLine, pipelineRejectionMarkerConstant) {
			return StatusPipelineRejected, nil
		}
	}

	return StatusNoErrors, nil
}

// TailExcerpt returns the final lines of the log file for attachment to status notes.
func TailExcerpt(logFilePath string) (string, error) {
	logLines, readError := readLogLines(logFilePath)
	if readError != nil {
		return "", readError
	}

	if len(logLines) > excerptLineCountConstant {
		logLines = logLines[len(logLines)-excerptLineCountConstant:]
	}

	return strings.Join(logLines, lineSeparatorConstant), nil
}

// MostRecentFile selects the newest file from the provided paths.
//
// Filenames embed their run timestamp, so lexicographic ordering matches
// chronological ordering for files produced by the same subtask.
func MostRecentFile(filePaths []string) (string, error) {
	if len(filePaths) == 0 {
		return "", errors.New(noFilesProvidedMessageConstant)
	}

	sortedPaths := make([]string, len(filePaths))
	copy(sortedPaths, filePaths)
	sort.Strings(sortedPaths)

	return sortedPaths[len(sortedPaths)-1], nil
}

func readLogLines(logFilePath string) ([]string, error) {
	logContent, readError := os.ReadFile(logFilePath)
	if readError != nil {
		return nil, fmt.Errorf(logReadErrorTemplateConstant, readError)
	}

	trimmedContent := strings.TrimRight(string(logContent), lineSeparatorConstant)
	if len(trimmedContent) == 0 {
		return nil, nil
	}

	return strings.Split(trimmedContent, lineSeparatorConstant), nil
}

func parseClockValue(runtimeLine string) (time.Time, error) {
	markerIndex := strings.Index(runtimeLine, runtimeMarkerConstant)
	clockToken := strings.TrimSpace(runtimeLine[markerIndex+len(runtimeMarkerConstant):])
	if fieldTokens := strings.Fields(clockToken); len(fieldTokens) > 0 {
		clockToken = fieldTokens[0]
	}

	clockValue, parseError := time.Parse(clockLayoutConstant, clockToken)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(runtimeParseErrorTemplateConstant, runtimeLine, parseError)
	}

	return clockValue, nil
}
