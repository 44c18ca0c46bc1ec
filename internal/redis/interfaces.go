package redis

import (
	"campusride/internal/assistant"
	"campusride/internal/middleware"
	"campusride/internal/repository"
)

// Ensure CacheStore serves every Redis-backed concern.
var (
	_ repository.SessionRepository = (*CacheStore)(nil)
	_ assistant.QuoteCache         = (*CacheStore)(nil)
	_ middleware.ResponseStore     = (*CacheStore)(nil)
)
