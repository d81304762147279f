package homoglyph_test

import (
	"certmatch/pkg/homoglyph"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readings(a *homoglyph.Alternatives) []string {
	all := []string{}
	for s, ok := a.Next(); ok; s, ok = a.Next() {
		all = append(all, s)
	}
	return all
}

var _ = Describe("Homoglyph", func() {
	m := homoglyph.Map{
		"\u0435": {"e"},
		"\u0456": {"i", "l"},
		"\u043e": {"o"},
	}

	Describe("GetHomoglyphMap", func() {
		full := homoglyph.GetHomoglyphMap()
		It("should map cyrillic look-alikes", func() {
			Expect(full).To(HaveKeyWithValue("\u0435", ContainElement("e")))
		})
		It("should never map ASCII characters", func() {
			for glyph := range full {
				Expect(glyph[0]).To(BeNumerically(">=", 0x80), glyph)
			}
		})
	})

	Describe("ReplaceHomoglyph", func() {
		It("should give the first latin reading", func() {
			Expect(homoglyph.ReplaceHomoglyph("t\u0435st.com", m)).To(Equal("test.com"))
			Expect(homoglyph.ReplaceHomoglyph("\u0430pple", homoglyph.Map{})).To(Equal("\u0430pple"))
		})
	})

	Describe("Alternatives", func() {
		It("should enumerate every reading", func() {
			a := homoglyph.NewAlternatives("g\u043e\u043egl\u0456", m)
			Expect(readings(a)).To(Equal([]string{"googli", "googll"}))
		})
		It("should restart after Reset", func() {
			a := homoglyph.NewAlternatives("\u0456", m)
			first, ok := a.Next()
			Expect(ok).To(BeTrue())
			Expect(first).To(Equal("i"))
			second, _ := a.Next()
			Expect(second).To(Equal("l"))
			_, ok = a.Next()
			Expect(ok).To(BeFalse())
			a.Reset()
			first, _ = a.Next()
			Expect(first).To(Equal("i"))
		})
		It("should stop at MaxAlternatives", func() {
			long := ""
			for i := 0; i < 12; i++ {
				long += "\u0456"
			}
			Expect(readings(homoglyph.NewAlternatives(long, m))).To(HaveLen(homoglyph.MaxAlternatives))
		})
	})
})
