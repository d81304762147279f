package transformer_test

import (
	"os"

	"certmatch/pkg/transformer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Certstream", func() {
	t := transformer.Certstream{}

	Describe("If cannot unmarshal message", func() {
		It("should return nil and error", func() {
			result, err := t.Apply([]byte(""))
			Expect(result).To(BeNil())
			Expect(err).To(HaveOccurred())
		})
	})
	Describe("If message is heartbeat", func() {
		It("should return nil", func() {
			msg, err := os.ReadFile("./res/heartbeat.json")
			Expect(err).NotTo(HaveOccurred())
			result, err := t.Apply(msg)
			Expect(result).To(BeNil())
			Expect(err).ToNot(HaveOccurred())
		})
	})
	Describe("If certificate has no domain", func() {
		It("should return nil", func() {
			result, err := t.Apply([]byte(`{"message_type":"certificate_update","data":{"leaf_cert":{"all_domains":[]}}}`))
			Expect(result).To(BeNil())
			Expect(err).ToNot(HaveOccurred())
		})
	})
	Describe("If message is regular", func() {
		It("should return valid infos", func() {
			msg, err := os.ReadFile("./res/cert.json")
			Expect(err).NotTo(HaveOccurred())
			result, err := t.Apply(msg)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.CertIndex).To(Equal(int64(873912410)))
			Expect(result.Seen).To(Equal(1601237384.103))
			Expect(result.Fingerprint).To(Equal("7A:2C:1D:9E:4B:55:60:3F:11:AE:0B:92:C4:D7:38:E1:5F:2A:6B:90"))
			Expect(result.NotBefore).To(Equal(1601233712.0))
			Expect(result.NotAfter).To(Equal(1609009712.0))
			Expect(result.Chain).To(Equal([]string{"Let's Encrypt"}))
			Expect(result.AllDomains).To(Equal([]string{"baden-mueller.de", "www.baden-mueller.de"}))
			Expect(result.Domain()).To(Equal("baden-mueller.de"))
			Expect(result.Issuer()).To(Equal("Let's Encrypt"))
			Expect(result.Analysers).To(BeEmpty())
		})
	})
})
