package logging

import "github.com/google/uuid"

// GenerateRequestID returns a new random (version 4) request ID.
func GenerateRequestID() string {
	return uuid.NewString()
}
