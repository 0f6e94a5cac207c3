package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type serverEnvironment struct {
	Port              string
	LogLevel          string
	ClientURL         string
	NatsURL           string
	TableSettingsFile string
}

// Env is a helper object for accessing environment variables.
var Env = &serverEnvironment{
	Port:              "PORT",
	LogLevel:          "LOG_LEVEL",
	ClientURL:         "CLIENT_URL",
	NatsURL:           "NATS_URL",
	TableSettingsFile: "TABLE_SETTINGS_FILE",
}

func (s *serverEnvironment) GetPort() int {
	portStr := os.Getenv(s.Port)
	if portStr == "" {
		return 4000
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (s *serverEnvironment) GetZeroLogLogLevel() zerolog.Level {
	l := os.Getenv(s.LogLevel)
	if l == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(l)
	if err != nil {
		environmentLogger.Warn().Msgf("Unrecognized log level %s, using the default level", l)
		return zerolog.InfoLevel
	}
	return level
}

func (s *serverEnvironment) GetClientURL() string {
	url := os.Getenv(s.ClientURL)
	if url == "" {
		return "http://localhost:3000"
	}
	return url
}

// GetNatsURL returns the NATS server url. An empty string means the
// NATS event mirror is disabled.
func (s *serverEnvironment) GetNatsURL() string {
	return os.Getenv(s.NatsURL)
}

func (s *serverEnvironment) GetTableSettingsFile() string {
	return os.Getenv(s.TableSettingsFile)
}
