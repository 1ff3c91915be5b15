package httpserver

import "time"

// ShutdownTimeout bounds the graceful drain of in-flight requests and the
// asset reaper queue.
var ShutdownTimeout = 15 * time.Second
