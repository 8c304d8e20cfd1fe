package utils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avpipeline/tracker/internal/utils"
)

const (
	testSupportedLevelCaseNameConstant    = "supported_level_and_format"
	testFileSinkCaseNameConstant          = "log_file_sink"
	testUnsupportedLevelCaseNameConstant  = "unsupported_level"
	testUnsupportedFormatCaseNameConstant = "unsupported_format"
	testUnknownLogLevelConstant           = "verbose"
	testUnknownLogFormatConstant          = "pretty"
	testLogFileNameConstant               = "tracker.log"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name        string
		level       utils.LogLevel
		format      utils.LogFormat
		useLogFile  bool
		expectError bool
	}{
		{
			name:   testSupportedLevelCaseNameConstant,
			level:  utils.LogLevelDebug,
			format: utils.LogFormatStructured,
		},
		{
			name:       testFileSinkCaseNameConstant,
			level:      utils.LogLevelInfo,
			format:     utils.LogFormatConsole,
			useLogFile: true,
		},
		{
			name:        testUnsupportedLevelCaseNameConstant,
			level:       utils.LogLevel(testUnknownLogLevelConstant),
			format:      utils.LogFormatStructured,
			expectError: true,
		},
		{
			name:        testUnsupportedFormatCaseNameConstant,
			level:       utils.LogLevelInfo,
			format:      utils.LogFormat(testUnknownLogFormatConstant),
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			loggerOptions := utils.LoggerOptions{
				Level:  testCase.level,
				Format: testCase.format,
			}
			if testCase.useLogFile {
				loggerOptions.LogFilePath = filepath.Join(testInstance.TempDir(), testLogFileNameConstant)
			}

			createdLogger, creationError := utils.NewLoggerFactory().CreateLogger(loggerOptions)

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, createdLogger)
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, createdLogger)
		})
	}
}
