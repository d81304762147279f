package wordsegment_test

import (
	"math"
	"strings"

	"certmatch/pkg/wordsegment"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func segment(m *wordsegment.Model, name string) []string {
	return wordsegment.RemoveStopwords(m.SegmentAll(wordsegment.Tokenize(name)))
}

var _ = Describe("Model", func() {
	m := wordsegment.Default()

	DescribeTable("should segment domains",
		func(name string, expected []string) {
			Expect(segment(m, name)).To(Equal(expected))
		},
		Entry("store.google.com", "store.google.com", []string{"store", "google", "com"}),
		Entry("www.facebook.com.msg40.site", "www.facebook.com.msg40.site", []string{"www", "facebook", "com", "msg40", "site"}),
		Entry("login-appleid.apple.com.managesupport.co", "login-appleid.apple.com.managesupport.co", []string{"login", "apple", "id", "apple", "com", "manage", "support", "co"}),
		Entry("arch.mappleonline.com", "arch.mappleonline.com", []string{"arch", "m", "apple", "online", "com"}),
		Entry("www.freybrothersinc.com", "www.freybrothersinc.com", []string{"www", "frey", "brothers", "com"}),
		Entry("agrosupport.zendesk.com", "agrosupport.zendesk.com", []string{"agro", "support", "zendesk", "com"}),
		Entry("djunprotected.com", "djunprotected.com", []string{"dj", "unprotected", "com"}),
		Entry("apple-verifyupdate.serveftp.com", "apple-verifyupdate.serveftp.com", []string{"apple", "verify", "update", "serve", "ftp", "com"}),
		Entry("paypal-secure-login.com", "paypal-secure-login.com", []string{"paypal", "secure", "login", "com"}),
		Entry("applefake.it", "applefake.it", []string{"apple", "fake", "it"}),
		Entry("google.co.uk", "google.co.uk", []string{"google", "co", "uk"}),
		Entry("xn--wgbfq3d.xn--ngbc5azd", "xn--wgbfq3d.xn--ngbc5azd", []string{"xn", "wgbfq3d", "xn", "ngbc5azd"}),
	)

	It("should keep tokens it can't segment", func() {
		Expect(m.SegmentAll([]string{"тест", "apple"})).To(Equal([]string{"тест", "apple"}))
	})

	It("should return nothing for empty text", func() {
		Expect(m.Segment("")).To(BeNil())
		Expect(m.Segment("---")).To(BeNil())
	})

	It("should penalize unknown words by their length", func() {
		Expect(m.Known("apple")).To(BeTrue())
		Expect(m.Known("qzxv")).To(BeFalse())
		Expect(m.Score("qzxv")).To(BeNumerically("~", math.Log10(10/wordsegment.Total)-4, 1e-9))
		Expect(m.Score("apple")).To(BeNumerically(">", m.Score("qzxv")))
	})
})

var _ = Describe("Load", func() {
	It("should read a word list", func() {
		m, err := wordsegment.Load(strings.NewReader("foo\t600\nbar\t400\n\n"), 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Score("foo")).To(BeNumerically("~", math.Log10(0.6), 1e-9))
		Expect(m.Segment("foobar")).To(Equal([]string{"foo", "bar"}))
	})
	It("should reject malformed lines", func() {
		_, err := wordsegment.Load(strings.NewReader("foo\n"), 1000)
		Expect(err).To(MatchError(ContainSubstring("line 1")))
		_, err = wordsegment.Load(strings.NewReader("foo\t-3\n"), 1000)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Helpers", func() {
	It("should tokenize on separators", func() {
		Expect(wordsegment.Tokenize("Login-AppleID.apple.com")).To(Equal([]string{"login", "appleid", "apple", "com"}))
	})
	It("should clean text", func() {
		Expect(wordsegment.Clean("Ab-C_1é")).To(Equal("abc1"))
	})
	It("should remove stopwords", func() {
		Expect(wordsegment.RemoveStopwords([]string{"my", "app", "home", "bank", "llc"})).To(Equal([]string{"my", "bank"}))
	})
})
