// Package metrics exposes Prometheus counters and the scrape endpoint.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UploadsTotal counts stored files.
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nuvoryx_uploads_total",
		Help: "Number of files uploaded.",
	})
	// DownloadsTotal counts direct file downloads.
	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nuvoryx_downloads_total",
		Help: "Number of files downloaded.",
	})
	// DeletesTotal counts deleted files and folders.
	DeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nuvoryx_deletes_total",
		Help: "Number of files and folders deleted.",
	})
)

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
