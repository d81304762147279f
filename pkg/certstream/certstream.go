package certstream

import (
	"context"
	"io"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	log "github.com/sirupsen/logrus"
)

// DefaultURL is the websocket stream from calidog
const DefaultURL = "wss://certstream.calidog.io"

// Source gathers messages from a CertStream server
type Source struct {
	URL   string
	Delay time.Duration
	dial  ws.Dialer
}

// New returns a Source for the given server, DefaultURL when empty
func New(url string) *Source {
	if url == "" {
		url = DefaultURL
	}
	return &Source{
		URL:   url,
		Delay: 1 * time.Second,
		dial: ws.Dialer{
			ReadBufferSize:  8192,
			WriteBufferSize: 512,
			Timeout:         5 * time.Second,
		},
	}
}

// Run reads messages into out until ctx is done, reconnecting whenever the
// connection drops
func (s *Source) Run(ctx context.Context, out chan<- []byte) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, br, _, err := s.dial.Dial(ctx, s.URL)
		if err != nil {
			log.Warnf("Error connecting to CertStream: %v. Sleeping a few seconds and reconnecting...", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.Delay):
			}
			continue
		}
		log.Infof("Connected to CertStream at %s", s.URL)

		// frames sent along with the handshake are buffered in br
		var rw io.ReadWriter = conn
		if br != nil {
			rw = struct {
				io.Reader
				io.Writer
			}{io.MultiReader(br, conn), conn}
		}

		stop := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-stop:
			}
		}()

		for {
			msg, _, err := wsutil.ReadServerData(rw)
			if err != nil {
				if ctx.Err() == nil {
					log.Warnf("Error reading message from CertStream: %v", err)
				}
				break
			}
			select {
			case out <- msg:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		close(stop)
		conn.Close()
	}
}
