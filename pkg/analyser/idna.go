package analyser

import (
	"strings"

	"certmatch/pkg/model"

	"golang.org/x/net/idna"
)

// IDNADecoder converts punycode SAN domains back to Unicode. Domains that
// can't be decoded are kept as they are.
type IDNADecoder struct{}

// NewIDNADecoder returns the stage
func NewIDNADecoder() *IDNADecoder {
	return &IDNADecoder{}
}

// Name implements Analyser
func (a *IDNADecoder) Name() string {
	return IDNADecoderName
}

// Run implements Analyser, rewriting the SAN list in place
func (a *IDNADecoder) Run(record *model.Record) error {
	decoded := make([]string, len(record.AllDomains))
	for i, name := range record.AllDomains {
		decoded[i] = DecodeIDN(name)
	}
	record.AllDomains = decoded
	return nil
}

// isIDN checks if one of the labels of a domain is punycode
func isIDN(name string) bool {
	for _, label := range strings.Split(name, ".") {
		if strings.HasPrefix(label, "xn--") {
			return true
		}
	}
	return false
}

// DecodeIDN returns the Unicode form of a domain, the wildcard label kept
func DecodeIDN(name string) string {
	if !isIDN(name) {
		return name
	}
	wildcard := strings.HasPrefix(name, "*.")
	u, err := idna.ToUnicode(strings.TrimPrefix(name, "*."))
	if err != nil || u == "" {
		return name
	}
	if wildcard {
		u = "*." + u
	}
	return u
}
