package config

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, prefix string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
		prefix:    prefix,
	}
}

// NewChatForTest creates a Chat config for testing purposes
func NewChatForTest(transport, baseURL, projectID string) *Chat {
	return &Chat{
		transport: transport,
		baseURL:   baseURL,
		projectID: projectID,
	}
}

// NewMailForTest creates a Mail config for testing purposes
func NewMailForTest(backend, addr, from string) *Mail {
	return &Mail{
		backend: backend,
		addr:    addr,
		from:    from,
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
