package proxy

import "mercator-hq/ollamagw/pkg/proxy/types"

// BuildPayload returns the upstream JSON body for req. Only fields the caller
// set are included, null values never appear, and "stream" is always set to
// the given value regardless of what the caller sent.
func BuildPayload(req types.UpstreamRequest, stream bool) map[string]any {
	payload := req.Fields()
	payload["stream"] = stream
	return payload
}

// PullPayload returns the upstream body for a pull request together with the
// relay mode the caller asked for. An unset stream flag means streaming. The
// upstream body carries the same flag so the daemon's response shape matches
// the mode the gateway relays it in.
func PullPayload(req *types.PullRequest) (payload map[string]any, stream bool) {
	stream = req.WantsStream()
	// The flag is forwarded rather than stripped: without it the daemon
	// streams by default and stream=false could not return one JSON object.
	return BuildPayload(req, stream), stream
}

// RemovePayload returns the upstream body for deleting a model.
func RemovePayload(model string) map[string]any {
	return map[string]any{"model": model}
}
