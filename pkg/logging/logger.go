package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a production zap logger with otelzap so every entry carries
// the active trace/span ids. When a Loki endpoint is configured, entries are
// also shipped there asynchronously; shipping failures are ignored.
type Logger struct {
	Logger      *otelzap.Logger
	serviceName string
	lokiURL     string
	httpClient  *http.Client
}

type lokiEntry struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func New(serviceName, lokiURL string) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	logger := &Logger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		logger.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return logger, nil
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, fields...)
	l.ship(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Warn(msg, fields...)
	l.ship(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, fields...)
	l.ship(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *Logger) ship(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	if l.lokiURL == "" {
		return
	}

	line := map[string]any{
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"level":     level.String(),
		"message":   msg,
		"service":   l.serviceName,
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		line["trace_id"] = span.SpanContext().TraceID().String()
		line["span_id"] = span.SpanContext().SpanID().String()
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	for key, value := range enc.Fields {
		line[key] = value
	}

	go l.push(level, line)
}

func (l *Logger) push(level zapcore.Level, line map[string]any) {
	jsonLine, err := json.Marshal(line)
	if err != nil {
		return
	}

	entry := lokiEntry{
		Streams: []lokiStream{
			{
				Stream: map[string]string{
					"service": l.serviceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(jsonLine)},
				},
			},
		},
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)
}
