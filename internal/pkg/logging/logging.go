package logging

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const contextKey = "logger"

// New builds the application logger.
// Production uses JSON output so log shippers can parse fields; dev uses the text formatter.
func New(level string, production bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if production {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	return logger
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// GinLogger logs one line per request and stores a request-scoped entry in the gin context.
func GinLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Set(contextKey, entry)

		c.Next()

		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if userID, ok := c.Get("userID"); ok {
			fields["user_id"] = userID
		}

		e := entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			e.Error("request failed")
		case c.Writer.Status() >= 400:
			e.Warn("request rejected")
		default:
			e.Info("request handled")
		}
	}
}

// FromContext returns the request-scoped logger, falling back to the standard logrus logger.
func FromContext(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(contextKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
