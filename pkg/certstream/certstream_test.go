package certstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"certmatch/pkg/certstream"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Source", func() {
	var (
		server      *httptest.Server
		connections atomic.Int32
	)

	BeforeEach(func() {
		connections.Store(0)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, _, _, err := ws.UpgradeHTTP(r, w)
			if err != nil {
				return
			}
			defer conn.Close()
			n := connections.Add(1)
			wsutil.WriteServerText(conn, []byte(`{"message_type":"heartbeat"}`))
			if n == 1 {
				return
			}
			wsutil.WriteServerText(conn, []byte(`{"message_type":"certificate_update"}`))
			time.Sleep(time.Second)
		}))
	})
	AfterEach(func() {
		server.Close()
	})

	It("should default to the calidog server", func() {
		Expect(certstream.New("").URL).To(Equal(certstream.DefaultURL))
	})

	It("should forward messages and reconnect", func() {
		s := certstream.New("ws" + strings.TrimPrefix(server.URL, "http"))
		s.Delay = 10 * time.Millisecond
		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan []byte, 10)
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx, out) }()

		Eventually(out).Should(Receive(Equal([]byte(`{"message_type":"heartbeat"}`))))
		Eventually(out).Should(Receive(Equal([]byte(`{"message_type":"heartbeat"}`))))
		Eventually(out).Should(Receive(Equal([]byte(`{"message_type":"certificate_update"}`))))
		Expect(connections.Load()).To(BeNumerically(">=", 2))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should keep retrying an unreachable server until cancelled", func() {
		s := certstream.New("ws://127.0.0.1:1")
		s.Delay = 10 * time.Millisecond
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		Expect(s.Run(ctx, make(chan []byte))).To(Succeed())
	})
})
