package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewGatewayForTest creates a Gateway config for testing purposes
func NewGatewayForTest(baseURL, imageCapID, modelCapID, userID string, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL:     baseURL,
		imageCapID:  imageCapID,
		modelCapID:  modelCapID,
		userID:      userID,
		callTimeout: timeout,
	}
}

// NewArtifactForTest creates an Artifact config for testing purposes
func NewArtifactForTest(backend, dir, bucket string) *Artifact {
	return &Artifact{
		backend: backend,
		dir:     dir,
		bucket:  bucket,
	}
}
