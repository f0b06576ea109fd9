package constant

const (
	// HeaderUserAgent is the HTTP User-Agent header key.
	HeaderUserAgent = "User-Agent"
	// HeaderRealIP is the de-facto upstream real client IP header key.
	HeaderRealIP = "X-Real-Ip"
	// HeaderForwardedFor is the X-Forwarded-For header key.
	HeaderForwardedFor = "X-Forwarded-For"
	// HeaderID is the request identifier header key.
	HeaderID = "X-Request-Id"
	// HeaderTraceparent is the W3C traceparent header key.
	HeaderTraceparent = "Traceparent"
	// HeaderReferer is the HTTP Referer header key.
	HeaderReferer = "Referer"
	// HeaderContentType is the HTTP Content-Type header key.
	HeaderContentType = "Content-Type"
)
