package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/indexhq/indexd/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("NewMetrics", func() {
		It("should create a new metrics instance", func() {
			Expect(m).NotTo(BeNil())
		})
	})

	Describe("IncrementRequests", func() {
		It("should increment request count for a route", func() {
			m.IncrementRequests("/index.html")
			m.IncrementRequests("/index.html")

			snap := m.Snapshot("dev")
			Expect(snap.TotalRequests).To(Equal(int64(2)))
			Expect(snap.Routes["/index.html"].Requests).To(Equal(int64(2)))
		})

		It("should track multiple routes separately", func() {
			m.IncrementRequests("/index.html")
			m.IncrementRequests("/healthz")
			m.IncrementRequests("/index.html")

			snap := m.Snapshot("dev")
			Expect(snap.TotalRequests).To(Equal(int64(3)))
			Expect(snap.Routes["/index.html"].Requests).To(Equal(int64(2)))
			Expect(snap.Routes["/healthz"].Requests).To(Equal(int64(1)))
		})
	})

	Describe("RecordResponse", func() {
		It("should record response time and status code", func() {
			m.RecordResponse("/index.html", 100*time.Millisecond, 200)
			m.RecordResponse("/index.html", 200*time.Millisecond, 200)

			snap := m.Snapshot("dev")
			route := snap.Routes["/index.html"]

			Expect(route.AvgResponse).To(Equal(150 * time.Millisecond))
			Expect(route.StatusCodes[200]).To(Equal(int64(2)))
		})

		It("should track different status codes", func() {
			m.RecordResponse("/index.html", 100*time.Millisecond, 200)
			m.RecordResponse("/index.html", 150*time.Millisecond, 301)
			m.RecordResponse("/index.html", 200*time.Millisecond, 404)

			snap := m.Snapshot("dev")
			route := snap.Routes["/index.html"]

			Expect(route.StatusCodes[200]).To(Equal(int64(1)))
			Expect(route.StatusCodes[301]).To(Equal(int64(1)))
			Expect(route.StatusCodes[404]).To(Equal(int64(1)))
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.RecordResponse("/index.html", time.Duration(i)*time.Millisecond, 200)
			}

			snap := m.Snapshot("dev")
			route := snap.Routes["/index.html"]

			Expect(route.P50Response).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(route.P95Response).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(route.P99Response).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored response times to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordResponse("/index.html", time.Duration(i)*time.Millisecond, 200)
			}

			snap := m.Snapshot("dev")
			route := snap.Routes["/index.html"]

			Expect(route.AvgResponse).To(BeNumerically(">", 500*time.Millisecond))
		})
	})

	Describe("Snapshot", func() {
		It("should return a snapshot with environment", func() {
			m.IncrementRequests("/index.html")

			snap := m.Snapshot("production")
			Expect(snap.Environment).To(Equal("production"))
		})

		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)

			snap := m.Snapshot("dev")
			Expect(snap.Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot("dev")

			Expect(snap.TotalRequests).To(Equal(int64(0)))
			Expect(snap.Routes).To(BeEmpty())
		})

		It("should return independent snapshot", func() {
			m.IncrementRequests("/index.html")

			snap1 := m.Snapshot("dev")
			m.IncrementRequests("/index.html")
			snap2 := m.Snapshot("dev")

			Expect(snap1.TotalRequests).To(Equal(int64(1)))
			Expect(snap2.TotalRequests).To(Equal(int64(2)))
		})
	})
})
