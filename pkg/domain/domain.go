package domain

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Parts is a hostname split around its public suffix, e.g.
// www.google.co.uk gives {www, google, co.uk}
type Parts struct {
	Subdomain string
	Domain    string
	Suffix    string
}

// StripWildcard removes a leading wildcard label
func StripWildcard(name string) string {
	return strings.TrimPrefix(name, "*.")
}

// Extract splits a hostname into subdomain, registrable label and public
// suffix. Only ICANN suffixes are honoured, so foo.github.io gives
// {foo, github, io}. An unlisted single label is a registrable label.
func Extract(host string) Parts {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return Parts{}
	}

	suffix := icannSuffix(host)
	if suffix == host {
		if strings.Contains(host, ".") || isKnownSuffix(host) {
			return Parts{Suffix: host}
		}
		return Parts{Domain: host}
	}

	rest := strings.TrimSuffix(host, "."+suffix)
	if rest == host {
		// suffix did not align on a label boundary
		return Parts{Domain: host}
	}
	i := strings.LastIndex(rest, ".")
	if i < 0 {
		return Parts{Domain: rest, Suffix: suffix}
	}
	return Parts{Subdomain: rest[:i], Domain: rest[i+1:], Suffix: suffix}
}

// icannSuffix returns the longest ICANN public suffix of host, falling back
// to the last label when the list has no rule for it
func icannSuffix(host string) string {
	suffix, icann := publicsuffix.PublicSuffix(host)
	for !icann {
		i := strings.Index(suffix, ".")
		if i < 0 {
			return suffix
		}
		suffix, icann = publicsuffix.PublicSuffix(suffix[i+1:])
	}
	return suffix
}

func isKnownSuffix(label string) bool {
	_, icann := publicsuffix.PublicSuffix(label)
	return icann
}

// Registered returns the registrable domain, e.g. google.co.uk
func (p Parts) Registered() string {
	return join(p.Domain, p.Suffix)
}

// TwoLevel returns the hostname without its public suffix, e.g. www.google
func (p Parts) TwoLevel() string {
	return join(p.Subdomain, p.Domain)
}

// SameRegistered tells whether both hostnames share registrable label and
// suffix
func (p Parts) SameRegistered(o Parts) bool {
	return p.Domain == o.Domain && p.Suffix == o.Suffix
}

// Labels returns the non empty parts from left to right, with or without
// the suffix
func (p Parts) Labels(withSuffix bool) []string {
	labels := []string{}
	for _, part := range []string{p.Subdomain, p.Domain} {
		if part != "" {
			labels = append(labels, part)
		}
	}
	if withSuffix && p.Suffix != "" {
		labels = append(labels, p.Suffix)
	}
	return labels
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "." + b
}
