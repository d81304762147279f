package model_test

import (
	"encoding/json"

	"certmatch/pkg/model"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Record", func() {
	It("should keep the ledger in order", func() {
		r := &model.Record{}
		r.Append("Bulk", model.Bulk(false))
		r.Append("Matches", model.Matches{"apple-login.com": {"apple.com"}})
		r.Append("Bulk", model.Bulk(true))
		Expect(r.Analysers).To(HaveLen(3))
		Expect(r.Analysers[1].Analyser).To(Equal("Matches"))
	})

	It("should look up the most recent output", func() {
		r := &model.Record{}
		r.Append("Bulk", model.Bulk(false))
		r.Append("Bulk", model.Bulk(true))
		out, ok := r.Lookup("Bulk")
		Expect(ok).To(BeTrue())
		Expect(out).To(Equal(model.Bulk(true)))
		_, ok = r.Lookup("Missing")
		Expect(ok).To(BeFalse())
	})

	It("should give the primary domain and issuer", func() {
		r := &model.Record{AllDomains: []string{"a.com", "b.com"}, Chain: []string{"Let's Encrypt", "ISRG"}}
		Expect(r.Domain()).To(Equal("a.com"))
		Expect(r.Issuer()).To(Equal("Let's Encrypt"))
		Expect((&model.Record{}).Domain()).To(BeEmpty())
		Expect((&model.Record{}).Issuer()).To(BeEmpty())
	})

	It("should serialize the ledger", func() {
		r := &model.Record{CertIndex: 1, AllDomains: []string{"apple-login.com"}}
		r.Append("DomainMatching", model.Verdicts{"apple-login.com": {"apple.com"}})
		b, err := json.Marshal(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring(`"analysers":[{"analyser":"DomainMatching","output":{"apple-login.com":["apple.com"]}}]`))
	})
})
