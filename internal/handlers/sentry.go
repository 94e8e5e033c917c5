package handlers

import (
	"regexp"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/config"
	"github.com/getsentry/sentry-go"
)

const redacted = "[Filtered]"

var (
	tokenPathPattern  = regexp.MustCompile(`(/reports/track/|/admin/reports/)[^/?#\s"]+`)
	tokenQueryPattern = regexp.MustCompile(`(?i)((?:^|[?&])token=)[^&#\s"]*`)
	tokenValuePattern = regexp.MustCompile(`(?i)\bCGS(?:[-\s]*[0-9A-Z]{5}){4}\b`)
)

// SentryOptions returns the client options used by the server. Every event
// and transaction passes through ScrubEvent before it leaves the process.
func SentryOptions(cfg *config.Config) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:                   cfg.SentryDSN,
		EnableTracing:         true,
		TracesSampleRate:      0.2,
		Environment:           cfg.AppEnv,
		BeforeSend:            ScrubEvent,
		BeforeSendTransaction: ScrubEvent,
	}
}

// ScrubEvent removes tracking tokens from transaction names, request data,
// messages, exceptions and spans.
func ScrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event == nil {
		return nil
	}

	event.Transaction = redactTokens(event.Transaction)
	event.Message = redactTokens(event.Message)

	if req := event.Request; req != nil {
		req.URL = redactTokens(req.URL)
		req.QueryString = ""
		req.Data = ""
		req.Cookies = ""
		for k, v := range req.Headers {
			req.Headers[k] = redactTokens(v)
		}
	}

	for i := range event.Exception {
		event.Exception[i].Value = redactTokens(event.Exception[i].Value)
	}
	for _, b := range event.Breadcrumbs {
		if b == nil {
			continue
		}
		b.Message = redactTokens(b.Message)
		scrubMap(b.Data)
	}
	for _, span := range event.Spans {
		if span == nil {
			continue
		}
		span.Description = redactTokens(span.Description)
		scrubMap(span.Data)
	}
	for k, v := range event.Tags {
		event.Tags[k] = redactTokens(v)
	}
	for _, ctx := range event.Contexts {
		scrubMap(ctx)
	}
	return event
}

func redactTokens(s string) string {
	if s == "" {
		return s
	}
	s = tokenPathPattern.ReplaceAllString(s, "${1}:token")
	s = tokenQueryPattern.ReplaceAllString(s, "${1}"+redacted)
	return tokenValuePattern.ReplaceAllString(s, redacted)
}

func scrubMap(m map[string]interface{}) {
	for k, v := range m {
		switch val := v.(type) {
		case string:
			m[k] = redactTokens(val)
		case map[string]interface{}:
			scrubMap(val)
		}
	}
}
