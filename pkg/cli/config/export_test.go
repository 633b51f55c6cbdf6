package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, mongoURI, postgresDSN string) *Repository {
	return &Repository{
		backend:     backend,
		projectID:   projectID,
		mongoURI:    mongoURI,
		postgresDSN: postgresDSN,
	}
}

// NewChatForTest creates a Chat config for testing purposes
func NewChatForTest(ttl, interval time.Duration, maxMessages int, persistTimeout time.Duration, rulesFile string) *Chat {
	return &Chat{
		sessionTTL:     ttl,
		sweepInterval:  interval,
		maxMessages:    maxMessages,
		persistTimeout: persistTimeout,
		rulesFile:      rulesFile,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, signingSecret, baseURL string) *Slack {
	return &Slack{
		botToken:      botToken,
		channelID:     channelID,
		signingSecret: signingSecret,
		baseURL:       baseURL,
	}
}

// NewLogHandler is exported for testing
var NewLogHandler = newLogHandler
