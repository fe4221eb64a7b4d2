package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("When recording load metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordUserLoaded()
					RecordScoreLoaded()
					RecordLineSkipped("short_line")
					RecordLineSkipped("bad_score")
					RecordLoadDuration(12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store and query metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordStoreError("hset")
					RecordStoreError("scan")
					RecordQueryLatency("top_players", 3.2)
					RecordQueryLatency("region", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordHTTPRequest("users", "GET", "200")
					RecordHTTPRequestDuration("users", "GET", "200", 1.1)
				}, ShouldNotPanic)
			})
		})

		Convey("When fetching the registry", func() {
			Convey("Then it should be non-nil", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
