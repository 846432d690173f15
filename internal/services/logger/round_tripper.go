package logger

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxLoggedBody = 2048

// RoundTripper stamps the User-Agent that Nominatim and api.weather.gov
// require and records every outbound call in the HTTP trace log.
type RoundTripper struct {
	Logger    *zap.Logger
	Proxy     http.RoundTripper
	UserAgent string
}

func NewRoundTripper(logger *zap.Logger, userAgent string) *RoundTripper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoundTripper{
		Logger:    logger,
		Proxy:     http.DefaultTransport,
		UserAgent: userAgent,
	}
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if l.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", l.UserAgent)
	}

	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		l.Logger.Error("Failed to read response body",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	snippet := bodyBytes
	if len(snippet) > maxLoggedBody {
		snippet = snippet[:maxLoggedBody]
	}

	l.Logger.Info("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.ByteString("body_snipped", snippet),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}
