package config

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, apiKey, projectID string) *LLM {
	return &LLM{
		provider:       provider,
		openaiAPIKey:   apiKey,
		openaiModel:    "gpt-4o-mini",
		geminiProject:  projectID,
		geminiLocation: "us-central1",
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, chromemPath string) *Repository {
	return &Repository{
		backend:     backend,
		projectID:   projectID,
		chromemPath: chromemPath,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}
