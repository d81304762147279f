package analyser

import (
	"strings"
	"sync"
	"unicode/utf8"

	"certmatch/pkg/homoglyph"
	"certmatch/pkg/model"
)

var (
	homoglyphs     homoglyph.Map
	homoglyphsOnce sync.Once
)

func defaultHomoglyphs() homoglyph.Map {
	homoglyphsOnce.Do(func() {
		homoglyphs = homoglyph.GetHomoglyphMap()
	})
	return homoglyphs
}

// HomoglyphsDecoder rewrites SAN domains made of look-alike characters into
// their first ASCII reading. It should run right after IDNADecoder.
type HomoglyphsDecoder struct {
	glyphs homoglyph.Map
}

// NewHomoglyphsDecoder returns the stage over the homoglyphr tables
func NewHomoglyphsDecoder() *HomoglyphsDecoder {
	return &HomoglyphsDecoder{glyphs: defaultHomoglyphs()}
}

// NewHomoglyphsDecoderWithMap returns the stage over a given map
func NewHomoglyphsDecoderWithMap(m homoglyph.Map) *HomoglyphsDecoder {
	return &HomoglyphsDecoder{glyphs: m}
}

// Name implements Analyser
func (a *HomoglyphsDecoder) Name() string {
	return HomoglyphsName
}

// Run implements Analyser. The number and order of the SAN domains is
// preserved.
func (a *HomoglyphsDecoder) Run(record *model.Record) error {
	decoded := make([]string, len(record.AllDomains))
	for i, name := range record.AllDomains {
		decoded[i] = name
		if isASCII(name) {
			continue
		}
		wildcard := strings.HasPrefix(name, "*.")
		alt := homoglyph.ReplaceHomoglyph(strings.TrimPrefix(name, "*."), a.glyphs)
		if wildcard {
			alt = "*." + alt
		}
		decoded[i] = alt
	}
	record.AllDomains = decoded
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
