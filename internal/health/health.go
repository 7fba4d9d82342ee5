// Package health exposes liveness and readiness probes for the alignment
// service.
package health

import "net/http"

// Checker reports whether the service is ready to serve alignment queries.
// *align.Engine satisfies this directly via its IsReady method.
type Checker interface {
	IsReady() bool
}

// Healthz returns 200 "ok\n" unconditionally: the process is up and able to
// answer HTTP requests at all.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz returns 200 "ready\n" once the engine has a built model, and 503
// "not ready\n" while it is still Unbuilt (no reference position yet, or
// the last build failed).
func Readyz(checker Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if !checker.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready\n"))
	}
}
