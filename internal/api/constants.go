package api

// Content types served outside the JSON API.
const (
	ContentTypeJavaScript = "application/javascript; charset=utf-8"
	ContentTypeHTML       = "text/html; charset=utf-8"
)

// Cache-Control header values.
const (
	CacheNoStore = "no-store"
)
