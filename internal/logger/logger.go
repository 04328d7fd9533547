// Package logger holds the process-wide zerolog logger and the gin middlewares
// that tag every request with an id. The id travels in the request context so
// backend calls made while serving it carry the same X-Request-ID.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader is read from incoming requests and echoed on responses.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

var log zerolog.Logger

// Init sets the level ("debug", "info", "warn", "error"); unknown or empty means info.
// Debug also switches to the console format.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if lvl == zerolog.DebugLevel {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	log = zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
}

// SetOutput replaces the writer of the global logger, keeping its level.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

func init() {
	Init("info")
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }

func Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

// Fatalf logs and exits.
func Fatalf(format string, v ...any) {
	log.Fatal().Msgf(format, v...)
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Ctx returns the global logger, tagged with the request id of ctx when there is one.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := log
	if id := RequestID(ctx); id != "" {
		l = log.With().Str("request_id", id).Logger()
	}

	return &l
}

// GinLogger assigns the request id (keeping a caller-supplied one), then logs
// one line per request. 4xx is logged as warn and 5xx as error.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))

		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		l := Ctx(c.Request.Context())
		event := l.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = l.Error()
		case status >= http.StatusBadRequest:
			event = l.Warn()
		}
		event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Int("size", c.Writer.Size()).
			Msg("request")
	}
}

// GinRecovery turns a handler panic into a logged 500 with the same body as any
// other internal error.
func GinRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

// RestyLogger adapts the global logger to the resty.Logger interface.
type RestyLogger struct{}

// Resty returns the adapter for the outgoing HTTP client.
func Resty() RestyLogger { return RestyLogger{} }

func (RestyLogger) Errorf(format string, v ...any) { log.Error().Str("component", "gateway").Msgf(format, v...) }
func (RestyLogger) Warnf(format string, v ...any)  { log.Warn().Str("component", "gateway").Msgf(format, v...) }
func (RestyLogger) Debugf(format string, v ...any) { log.Debug().Str("component", "gateway").Msgf(format, v...) }
