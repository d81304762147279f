package domain_test

import (
	"certmatch/pkg/domain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Extract", func() {
	DescribeTable("should split hostnames",
		func(host string, expected domain.Parts) {
			Expect(domain.Extract(host)).To(Equal(expected))
		},
		Entry("simple domain", "google.com", domain.Parts{Domain: "google", Suffix: "com"}),
		Entry("subdomain", "store.google.com", domain.Parts{Subdomain: "store", Domain: "google", Suffix: "com"}),
		Entry("multi label suffix", "www.google.co.uk", domain.Parts{Subdomain: "www", Domain: "google", Suffix: "co.uk"}),
		Entry("private suffix ignored", "foo.github.io", domain.Parts{Subdomain: "foo", Domain: "github", Suffix: "io"}),
		Entry("brand in subdomain", "login-appleid.apple.com.managesupport.co",
			domain.Parts{Subdomain: "login-appleid.apple.com", Domain: "managesupport", Suffix: "co"}),
		Entry("upper case and trailing dot", "WWW.Example.COM.", domain.Parts{Subdomain: "www", Domain: "example", Suffix: "com"}),
		Entry("bare suffix", "com", domain.Parts{Suffix: "com"}),
		Entry("unlisted single label", "localhost", domain.Parts{Domain: "localhost"}),
		Entry("empty", "", domain.Parts{}),
	)
})

var _ = Describe("Parts", func() {
	p := domain.Extract("www.google.co.uk")

	It("should give the registered domain", func() {
		Expect(p.Registered()).To(Equal("google.co.uk"))
	})
	It("should give the name without suffix", func() {
		Expect(p.TwoLevel()).To(Equal("www.google"))
		Expect(domain.Extract("google.com").TwoLevel()).To(Equal("google"))
	})
	It("should list labels", func() {
		Expect(p.Labels(false)).To(Equal([]string{"www", "google"}))
		Expect(p.Labels(true)).To(Equal([]string{"www", "google", "co.uk"}))
	})
	It("should compare registered domains", func() {
		Expect(domain.Extract("store.google.com").SameRegistered(domain.Extract("google.com"))).To(BeTrue())
		Expect(domain.Extract("google.com.evil.net").SameRegistered(domain.Extract("google.com"))).To(BeFalse())
		Expect(domain.Extract("google.net").SameRegistered(domain.Extract("google.com"))).To(BeFalse())
	})
	It("should strip wildcards", func() {
		Expect(domain.StripWildcard("*.google.com")).To(Equal("google.com"))
		Expect(domain.StripWildcard("google.com")).To(Equal("google.com"))
	})
})
