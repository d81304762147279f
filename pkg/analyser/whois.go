package analyser

import (
	"strings"
	"time"

	"certmatch/pkg/model"

	tld "github.com/jpillora/go-tld"
	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LookupFunc fetches the registration details of a registrable domain
type LookupFunc func(registered string) (registrar, creationDate string, err error)

// WhoisLookup fetches the registrar and creation date of every domain
// flagged by DomainMatching. Fresh domains are far more likely to be
// phishing than old ones.
type WhoisLookup struct {
	lookup LookupFunc
	now    func() time.Time
}

// NewWhoisLookup returns the stage querying WHOIS servers
func NewWhoisLookup() *WhoisLookup {
	return NewWhoisLookupWith(getWhoIs)
}

// NewWhoisLookupWith returns the stage over a custom lookup
func NewWhoisLookupWith(lookup LookupFunc) *WhoisLookup {
	return &WhoisLookup{lookup: lookup, now: time.Now}
}

// Name implements Analyser
func (a *WhoisLookup) Name() string {
	return WhoisName
}

// Run implements Analyser. Domains whose lookup fails are left out.
func (a *WhoisLookup) Run(record *model.Record) error {
	out, ok := record.Lookup(DomainMatchingName)
	if !ok {
		return nil
	}
	verdicts, ok := out.(model.Verdicts)
	if !ok {
		return nil
	}
	results := model.Registrations{}
	for name := range verdicts {
		registered, err := registeredDomain(name)
		if err != nil {
			log.Debugf("Could not get WHOIS details of domain %s: %v", name, err)
			continue
		}
		registrar, created, err := a.lookup(registered)
		if err != nil {
			log.Warnf("Could not get WHOIS details of domain %s: %v", name, err)
			continue
		}
		results[name] = model.Registration{
			Registrar:    registrar,
			CreationDate: created,
			AgeDays:      AgeDays(created, a.now()),
		}
	}
	if len(results) > 0 {
		record.Append(a.Name(), results)
	}
	return nil
}

// registeredDomain returns domain.tld of a hostname
func registeredDomain(name string) (string, error) {
	u, err := tld.Parse("https://" + name)
	if err != nil {
		return "", err
	}
	if u == nil || u.Domain == "" || u.TLD == "" {
		return "", errors.Errorf("no registrable domain in %s", name)
	}
	return u.Domain + "." + u.TLD, nil
}

// getWhoIs gets domain WHOIS details
func getWhoIs(registered string) (registrar, creationDate string, err error) {
	raw, err := whois.Whois(registered)
	if err != nil {
		return "", "", err
	}
	result, err := whoisparser.Parse(raw)
	if err != nil {
		return "", "", errors.Wrap(err, "can't parse WHOIS answer")
	}
	if result.Domain == nil {
		return "", "", errors.New("WHOIS answer has no domain section")
	}
	if result.Registrar != nil {
		registrar = result.Registrar.Name
	}
	return registrar, strings.Split(result.Domain.CreatedDate, "T")[0], nil
}

// AgeDays returns the number of days since a YYYY-MM-DD date, -1 when the
// date can't be read
func AgeDays(date string, now time.Time) int {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return -1
	}
	return int(now.Sub(t).Hours() / 24)
}
