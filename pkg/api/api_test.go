package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"certmatch/pkg/api"
	"certmatch/pkg/pipeline"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeEngine struct{ stats pipeline.Stats }

func (f fakeEngine) Stats() pipeline.Stats { return f.stats }

var _ = Describe("Server", func() {
	var handler http.Handler

	BeforeEach(func() {
		s, err := api.New(":0", fakeEngine{stats: pipeline.Stats{Received: 10, Processed: 8, Flagged: 2, Running: true}})
		Expect(err).NotTo(HaveOccurred())
		handler, err = s.Router()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should answer on /healthz", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"ok"`))
	})

	It("should return the pipeline counters", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		var stats pipeline.Stats
		Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
		Expect(stats.Received).To(Equal(int64(10)))
		Expect(stats.Flagged).To(Equal(int64(2)))
		Expect(stats.Running).To(BeTrue())
	})

	It("should serve the runtime dashboard", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/statsviz/", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should reject other methods", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))
		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
	})
})
