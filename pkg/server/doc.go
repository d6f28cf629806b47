// Package server provides the HTTP server of the Ollama gateway.
//
// The server ties the relay handlers, probes and metrics endpoint into one
// mux and wraps it in the middleware chain. Relay routes live under
// proxy.path_prefix (default /ollama) and are the only routes behind the
// API key guard.
//
// # Basic Usage
//
//	client, err := ollama.NewClient(cfg.Upstream, ollama.WithTracer(tracer))
//	if err != nil {
//	    return err
//	}
//	relay := proxy.NewRelay(client, logger)
//
//	srv := server.New(cfg, server.Dependencies{
//	    Relay:   relay,
//	    Metrics: collector,
//	    Tracer:  tracer,
//	    Guard:   guard,
//	    Checker: checker,
//	    Logger:  logger,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled or Stop is called and then drains
// open requests for up to proxy.shutdown_timeout. Long NDJSON streams that
// outlive the timeout are cut.
//
// # TLS
//
// With security.tls.enabled the key pair is loaded before the listener
// opens, so a bad pair fails Start. Renewed certificates are picked up
// without a restart (see package security/tls).
//
// # Timeouts
//
// proxy.write_timeout defaults to 0 because a streamed generation can run
// for minutes. Buffered relay routes get a request deadline of
// upstream.request_timeout instead; streamed routes end only when the
// daemon finishes or the caller leaves.
package server
