package screenshot_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"certmatch/pkg/screenshot"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Taker", func() {
	It("should give up when the site is down", func() {
		t := screenshot.New()
		Expect(t.Take(context.Background(), "127.0.0.1:1")).To(BeEmpty())
	})

	Describe("Upload", func() {
		var (
			server *httptest.Server
			path   string
			body   []byte
		)
		BeforeEach(func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodPut))
				Expect(r.URL.Path).To(Equal("/paypal-login.com.png"))
				Expect(r.Header.Get("Content-Type")).To(Equal("image/png"))
				body, _ = io.ReadAll(r.Body)
				io.WriteString(w, "https://files.example/abc/paypal-login.com.png\n")
			}))
			path = filepath.Join(tempDir(), "shot.png")
			Expect(os.WriteFile(path, []byte("png"), 0o644)).To(Succeed())
		})
		AfterEach(func() {
			server.Close()
		})

		It("should return the link of the uploaded file", func() {
			t := screenshot.New()
			t.UploadURL = server.URL + "/"
			link, err := t.Upload(context.Background(), "paypal-login.com", path)
			Expect(err).NotTo(HaveOccurred())
			Expect(link).To(Equal("https://files.example/abc/paypal-login.com.png"))
			Expect(string(body)).To(Equal("png"))
		})
	})
})
