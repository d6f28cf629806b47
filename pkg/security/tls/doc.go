/*
Package tls serves the gateway's listener certificate.

ServerConfig turns the security.tls section into a *crypto/tls.Config:

	tlsConfig, err := tls.ServerConfig(ctx, &cfg.Security.TLS, logger)
	if err != nil {
		return err
	}
	httpServer.TLSConfig = tlsConfig
	err = httpServer.ServeTLS(listener, "", "")

The key pair is loaded before the listener starts, so a missing, expired
or mismatched pair fails startup. Afterwards a CertificateReloader checks
the files every reload_interval and swaps in a renewed pair; a broken
renewal is logged and the previous pair keeps serving.

Setting client_ca_file turns on mutual TLS: every client must present a
certificate signed by one of the listed CAs.
*/
package tls
