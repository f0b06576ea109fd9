package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/LerianStudio/lib-openhours/openhours"
	cn "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/log"
)

// RequestInfo stores the access-log data of one request.
type RequestInfo struct {
	Method        string
	URI           string
	Referer       string
	RemoteAddress string
	Status        int
	Date          time.Time
	Duration      time.Duration
	UserAgent     string
	RequestID     string
	Protocol      string
	Size          int
}

// NewRequestInfo captures the request side of the access log.
func NewRequestInfo(c *fiber.Ctx) *RequestInfo {
	referer := "-"
	if value := c.Get(cn.HeaderReferer); value != "" {
		referer = value
	}

	return &RequestInfo{
		RequestID:     c.Get(cn.HeaderID),
		Method:        c.Method(),
		URI:           c.OriginalURL(),
		Referer:       referer,
		UserAgent:     c.Get(cn.HeaderUserAgent),
		RemoteAddress: c.IP(),
		Protocol:      c.Protocol(),
		Date:          time.Now().UTC(),
	}
}

// CLFString renders the entry in Common Log Format.
// Ref: https://httpd.apache.org/docs/trunk/logs.html#common
func (r *RequestInfo) CLFString() string {
	return strings.Join([]string{
		r.RemoteAddress,
		"-",
		"-",
		r.Protocol,
		r.Date.Format("[02/Jan/2006:15:04:05 -0700]"),
		`"` + r.Method + " " + r.URI + `"`,
		strconv.Itoa(r.Status),
		strconv.Itoa(r.Size),
		r.Referer,
		r.UserAgent,
	}, " ")
}

// String implements fmt.Stringer.
func (r *RequestInfo) String() string {
	return r.CLFString()
}

// FinishRequestInfo records status, size and duration from the response.
func (r *RequestInfo) FinishRequestInfo(c *fiber.Ctx) {
	r.Duration = time.Now().UTC().Sub(r.Date)
	r.Status = c.Response().StatusCode()
	r.Size = len(c.Response().Body())
}

type logMiddleware struct {
	Logger log.Logger
}

// LogMiddlewareOption configures WithHTTPLogging.
type LogMiddlewareOption func(l *logMiddleware)

// WithCustomLogger sets the logger used for access logs and stored in the request context.
func WithCustomLogger(logger log.Logger) LogMiddlewareOption {
	return func(l *logMiddleware) {
		if logger != nil {
			l.Logger = logger
		}
	}
}

func buildOpts(opts ...LogMiddlewareOption) *logMiddleware {
	mid := &logMiddleware{Logger: log.NewGoLogger(log.LevelInfo)}

	for _, opt := range opts {
		opt(mid)
	}

	return mid
}

// WithHTTPLogging assigns a request ID, stores a request-scoped logger in the
// user context and writes one access-log line per request. Errors returned by
// later handlers are rendered here so the logged status is the final one.
func WithHTTPLogging(opts ...LogMiddlewareOption) fiber.Handler {
	mid := buildOpts(opts...)

	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		setRequestHeaderID(c)

		info := NewRequestInfo(c)

		logger := mid.Logger.With(log.String(cn.HeaderID, info.RequestID))
		c.SetUserContext(openhours.ContextWithLogger(c.UserContext(), logger))

		if err := c.Next(); err != nil {
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = SimpleInternalServerError(c)
			}
		}

		info.FinishRequestInfo(c)

		logger.Log(c.UserContext(), log.LevelInfo, info.CLFString())

		return nil
	}
}

func setRequestHeaderID(c *fiber.Ctx) {
	headerID := strings.TrimSpace(c.Get(cn.HeaderID))

	if headerID == "" {
		headerID = uuid.New().String()
		c.Request().Header.Set(cn.HeaderID, headerID)
	}

	c.Set(cn.HeaderID, headerID)
	c.SetUserContext(openhours.ContextWithHeaderID(c.UserContext(), headerID))
}
