// Package logging builds the gateway's structured logger on log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// Records logged with a context pick up request_id and model from the
// context and trace_id and span_id from the active OpenTelemetry span:
//
//	ctx = logging.WithRequestID(ctx, id)
//	slog.InfoContext(ctx, "stream finished", "chunks", n)
//
// # Redaction
//
// Attributes whose key looks like a credential (authorization, api_key,
// token, secret, ...) are masked, and bearer tokens or api_key=... fragments
// inside other string values are replaced. API keys never reach the log
// output in full.
package logging
