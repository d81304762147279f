package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"certmatch/pkg/analyser"
	"certmatch/pkg/model"
	"certmatch/pkg/screenshot"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultSlackUsername is the name the messages are posted under
const DefaultSlackUsername = "Certmatch"

// SlackConfig is the configuration of the Slack reporter
type SlackConfig struct {
	WebhookURL      string
	IconURL         string
	Username        string
	TakeScreenshot  bool
	IgnoreOlderThan int
}

// Screenshoter captures a domain and returns the URL of the picture
type Screenshoter interface {
	Take(ctx context.Context, domain string) string
}

// AttachmentField
type AttachmentField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Attachment
type Attachment struct {
	Color    string            `json:"color"`
	Text     string            `json:"text,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
	Fields   []AttachmentField `json:"fields"`
}

// Payload represents a message to send to Slack
type Payload struct {
	Text        string       `json:"text,omitempty"`
	Username    string       `json:"username,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Resolver returns the IPv4 addresses of a host
type Resolver func(host string) []string

// Slack posts an alert for every record flagged by DomainMatching
type Slack struct {
	cfg        SlackConfig
	client     *http.Client
	screenshot Screenshoter
	resolve    Resolver
}

// NewSlack returns the reporter, the webhook URL is mandatory
func NewSlack(cfg SlackConfig) (*Slack, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New("slack reporter needs a webhook url")
	}
	if cfg.Username == "" {
		cfg.Username = DefaultSlackUsername
	}
	s := &Slack{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}, resolve: fetchIPv4Addresses}
	if cfg.TakeScreenshot {
		s.screenshot = screenshot.New()
	}
	return s, nil
}

// WithScreenshoter replaces the screenshot taker
func (s *Slack) WithScreenshoter(sc Screenshoter) *Slack {
	s.screenshot = sc
	return s
}

// WithResolver replaces the DNS resolver
func (s *Slack) WithResolver(r Resolver) *Slack {
	s.resolve = r
	return s
}

// Name implements Reporter
func (*Slack) Name() string { return "slack" }

// Publish implements Reporter
func (s *Slack) Publish(ctx context.Context, record *model.Record) error {
	verdicts := verdictsOf(record)
	if len(verdicts) == 0 || s.tooOld(record, verdicts) {
		return nil
	}
	payload := NewPayload(s.cfg, record, verdicts)
	first := sortedKeys(verdicts)[0]
	if s.resolve != nil {
		if addresses := s.resolve(first); len(addresses) > 0 {
			payload.Attachments[0].Fields = append(payload.Attachments[0].Fields,
				AttachmentField{Title: "Addresses", Value: strings.Join(addresses, ", "), Short: false})
		}
	}
	if s.screenshot != nil {
		if url := s.screenshot.Take(ctx, first); url != "" {
			payload.Attachments[0].ImageURL = url
		}
	}
	return s.post(ctx, payload)
}

// Close implements Reporter
func (*Slack) Close() error { return nil }

// tooOld tells whether every flagged domain is known to be older than
// IgnoreOlderThan days
func (s *Slack) tooOld(record *model.Record, verdicts model.Verdicts) bool {
	if s.cfg.IgnoreOlderThan <= 0 {
		return false
	}
	out, ok := record.Lookup(analyser.WhoisName)
	if !ok {
		return false
	}
	registrations, ok := out.(model.Registrations)
	if !ok {
		return false
	}
	for name := range verdicts {
		reg, ok := registrations[name]
		if !ok || reg.AgeDays < 0 || reg.AgeDays <= s.cfg.IgnoreOlderThan {
			return false
		}
	}
	return true
}

// NewPayload generates a new Slack Payload
func NewPayload(cfg SlackConfig, r *model.Record, verdicts model.Verdicts) Payload {
	var fields []AttachmentField

	names := sortedKeys(verdicts)
	fields = append(fields, AttachmentField{Title: "Domain", Value: r.Domain(), Short: true})
	fields = append(fields, AttachmentField{Title: "Issuer", Value: r.Issuer(), Short: true})

	brands := []string{}
	seen := map[string]bool{}
	for _, name := range names {
		for _, b := range verdicts[name] {
			if !seen[b] {
				seen[b] = true
				brands = append(brands, b)
			}
		}
	}
	fields = append(fields, AttachmentField{Title: "Brand", Value: strings.Join(brands, ", "), Short: true})
	fields = append(fields, AttachmentField{Title: "Matching", Value: strings.Join(names, ", "), Short: false})

	if out, ok := r.Lookup(analyser.WhoisName); ok {
		if registrations, ok := out.(model.Registrations); ok {
			for _, name := range names {
				reg, ok := registrations[name]
				if !ok {
					continue
				}
				fields = append(fields, AttachmentField{Title: "Registrar", Value: reg.Registrar, Short: true})
				fields = append(fields, AttachmentField{Title: "Creation Date", Value: reg.CreationDate, Short: true})
				break
			}
		}
	}

	fields = append(fields, AttachmentField{Title: "SAN", Value: strings.Join(r.AllDomains, ", "), Short: false})

	return Payload{
		Text:     "A certificate for " + r.Domain() + " impersonating " + strings.Join(brands, ", ") + " has been issued",
		Username: cfg.Username,
		IconURL:  cfg.IconURL,
		Attachments: []Attachment{{
			Color:  "#ff5400",
			Fields: fields,
		}},
	}
}

func (s *Slack) post(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "can't encode payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return errors.Wrap(err, "can't create request")
	}
	req.Header.Add("Content-Type", "application/json")
	res, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "slack post error")
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("slack answered %s", res.Status)
	}
	return nil
}

// fetchIPv4Addresses resolves a domain, wildcard aside
func fetchIPv4Addresses(host string) []string {
	var ipsList []string

	ips, err := net.LookupIP(strings.TrimPrefix(host, "*."))
	if err != nil || len(ips) == 0 {
		log.Debugf("Could not fetch IPv4 addresses of domain %s", host)
		return ipsList
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			ipsList = append(ipsList, ip.String())
		}
	}
	return ipsList
}

func verdictsOf(record *model.Record) model.Verdicts {
	if record == nil {
		return nil
	}
	out, ok := record.Lookup(analyser.DomainMatchingName)
	if !ok {
		return nil
	}
	verdicts, _ := out.(model.Verdicts)
	return verdicts
}

func sortedKeys(m model.Verdicts) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
