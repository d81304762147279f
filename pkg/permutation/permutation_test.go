package permutation_test

import (
	"certmatch/pkg/permutation"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Permutations", func() {
	It("should omit one letter", func() {
		Expect(permutation.Omission("test")).To(Equal([]string{"est", "tst", "tet", "tes"}))
		Expect(permutation.Omission("a")).To(BeEmpty())
	})
	It("should repeat one letter", func() {
		Expect(permutation.Repetition("abc")).To(Equal([]string{"aabc", "abbc", "abcc"}))
		Expect(permutation.Repetition("a1")).To(Equal([]string{"aa1"}))
	})
	It("should swap adjacent letters", func() {
		Expect(permutation.Transposition("abc")).To(Equal([]string{"bac", "acb"}))
		Expect(permutation.Transposition("aab")).To(Equal([]string{"aba"}))
	})
	It("should swap vowels", func() {
		Expect(permutation.VowelSwap("bat")).To(Equal([]string{"bet", "bit", "bot", "but", "byt"}))
		Expect(permutation.VowelSwap("xyz")).To(Equal([]string{"xaz", "xez", "xiz", "xoz", "xuz"}))
	})
	It("should flip one bit", func() {
		// a is 0x61: 0x60, 0x63, 0x65, 0x69, 0x71, 0x41, 0x21, 0xe1
		Expect(permutation.Bitsquatting("a")).To(Equal([]string{"c", "e", "i", "q"}))
	})

	Describe("All", func() {
		It("should never contain the label itself", func() {
			for _, label := range []string{"apple", "google", "paypal", "aa"} {
				Expect(permutation.All(label)).NotTo(ContainElement(label))
			}
		})
		It("should be free of duplicates", func() {
			all := permutation.All("google")
			seen := map[string]bool{}
			for _, v := range all {
				Expect(seen[v]).To(BeFalse(), v)
				seen[v] = true
			}
			Expect(all).To(ContainElements("gogle", "gooogle", "ogogle", "guogle"))
		})
		It("should be deterministic", func() {
			Expect(permutation.All("paypal")).To(Equal(permutation.All("paypal")))
		})
	})
})
