// Package auth guards the relay routes with static API keys.
//
// Keys come from security.auth.keys and, optionally, a keys file with one
// key per line:
//
//	# team keys
//	sk-ollama-alice-7d1f
//	sk-ollama-bob-03aa
//
// With watch enabled the file is watched with fsnotify and reloaded on
// every write; a failed reload keeps the previous keys. By default the key
// is read from "Authorization: Bearer <key>". Requests without a valid key
// get 401 with {"detail": "Invalid or missing API key"}.
//
// Usage:
//
//	guard, err := auth.NewGuard(&cfg.Security.Auth, logger)
//	if err != nil {
//		return err
//	}
//	defer guard.Close()
//	mux.Handle("POST /ollama/chat", guard.Wrap(chatHandler))
package auth
