// Package screenshot captures the landing page of a suspicious domain with a
// headless Chrome and uploads the picture.
package screenshot

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultUploadURL is the file sharing service receiving the pictures
const DefaultUploadURL = "https://transfer.sh/"

const quality = 90

// Taker takes and uploads screenshots
type Taker struct {
	Folder    string
	UploadURL string
	Client    *http.Client
	Timeout   time.Duration
}

// New returns a Taker writing into the temporary directory
func New() *Taker {
	return &Taker{
		Folder:    os.TempDir(),
		UploadURL: DefaultUploadURL,
		Client:    &http.Client{Timeout: 30 * time.Second},
		Timeout:   15 * time.Second,
	}
}

// Take takes a screenshot of domain, uploads it and returns its URL. It
// returns an empty string when the site is down or anything fails.
func (t *Taker) Take(ctx context.Context, domain string) string {
	url := t.finalURL(ctx, domain)
	if url == "" {
		return ""
	}

	buf, err := t.capture(ctx, url)
	if err != nil {
		log.Warnf("Can't take a screenshot of domain '%v': %v", domain, err)
		return ""
	}
	path := filepath.Join(t.Folder, domain+".png")
	if err = os.WriteFile(path, buf, 0o644); err != nil {
		log.Warnf("Can't write the .png of the screenshot of domain '%v': %v", domain, err)
		return ""
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Debugf("Can't delete the screenshot file %v: %v", path, err)
		}
	}()
	log.Infof("Screenshot taken for domain '%v'", domain)

	link, err := t.upload(ctx, domain, path)
	if err != nil {
		log.Warnf("Can't upload the screenshot of domain '%v': %v", domain, err)
		return ""
	}
	return link
}

func (t *Taker) capture(ctx context.Context, url string) ([]byte, error) {
	opts := []chromedp.ExecAllocatorOption{}
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.IgnoreCertErrors,
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	tabCtx, cancelTabCtx := context.WithTimeout(browserCtx, t.Timeout)
	defer cancelTabCtx()

	var buf []byte
	err := chromedp.Run(
		tabCtx,
		chromedp.Tasks{
			chromedp.Navigate(url),
			chromedp.Sleep(time.Second * 3),
			chromedp.FullScreenshot(&buf, quality),
		},
	)
	return buf, err
}

func (t *Taker) upload(ctx context.Context, domain, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, strings.TrimSuffix(t.UploadURL, "/")+"/"+domain+".png", file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "image/png")

	res, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", errors.Errorf("unexpected status %d", res.StatusCode)
	}
	message, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(message)), nil
}

// finalURL checks the website is online and follows redirects
func (t *Taker) finalURL(ctx context.Context, domain string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+domain, nil)
	if err != nil {
		return ""
	}
	res, err := t.Client.Do(req)
	if err != nil {
		return ""
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return ""
	}
	return res.Request.URL.String()
}
