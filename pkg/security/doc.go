/*
Package security groups the gateway's inbound protections.

# API Key Authentication

Package auth guards the relay routes. Keys come from the configuration and
an optional keys file that can be watched for changes:

	guard, err := auth.NewGuard(&cfg.Security.Auth, logger)
	if err != nil {
		return err
	}
	defer guard.Close()

	mux.Handle("POST /ollama/chat", guard.Wrap(chatHandler))

Requests without a valid key get 401 with {"detail": "..."}.

# TLS

Package tls builds the listener configuration, reloads renewed
certificates and optionally requires client certificates:

	tlsConfig, err := tls.ServerConfig(ctx, &cfg.Security.TLS, logger)
*/
package security
