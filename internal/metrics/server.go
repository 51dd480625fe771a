package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dxgrid/airlink/internal/log"
)

// Serve exposes /metrics on the given listen address in the background.
// The returned server can be shut down by the caller at process exit.
func Serve(listen string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: listen, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.GetLogger().WithError(err).Error("metrics server failed")
		}
	}()
	log.GetLogger().WithField("listen", listen).Info("metrics server started")
	return srv
}
