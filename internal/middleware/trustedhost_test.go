package middleware_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/indexhq/indexd/internal/middleware"
)

var _ = Describe("TrustedHost", func() {
	var next http.Handler

	BeforeEach(func() {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
	})

	serve := func(allowed []string, host string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "http://placeholder/", nil)
		req.Host = host
		middleware.TrustedHost(allowed)(next).ServeHTTP(rec, req)
		return rec
	}

	DescribeTable("pattern matching",
		func(allowed []string, host string, wantCode int) {
			rec := serve(allowed, host)
			Expect(rec.Code).To(Equal(wantCode))
		},
		Entry("wildcard admits any host", []string{"*"}, "whatever.example.com", http.StatusOK),
		Entry("exact match", []string{"example.com"}, "example.com", http.StatusOK),
		Entry("match is case-insensitive", []string{"example.com"}, "Example.COM", http.StatusOK),
		Entry("port is ignored", []string{"example.com"}, "example.com:8080", http.StatusOK),
		Entry("*.domain admits subdomains", []string{"*.example.com"}, "api.example.com", http.StatusOK),
		Entry("*.domain admits nested subdomains", []string{"*.example.com"}, "a.b.example.com", http.StatusOK),
		Entry("*.domain does not admit the bare domain", []string{"*.example.com"}, "example.com", http.StatusBadRequest),
		Entry("unlisted host is rejected", []string{"example.com", "testserver"}, "evil.com", http.StatusBadRequest),
		Entry("empty list rejects everything", nil, "example.com", http.StatusBadRequest),
	)

	It("serves the wrapped handler for an admitted host", func() {
		rec := serve([]string{"example.com"}, "example.com")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("ok"))
	})

	It("rejects with a descriptive body", func() {
		rec := serve([]string{"example.com"}, "evil.com")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("Invalid host header"))
	})
})
