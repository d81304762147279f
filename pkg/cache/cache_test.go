package cache_test

import (
	"certmatch/pkg/cache"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cache", func() {
	var c *cache.Cache

	BeforeEach(func() {
		c = cache.New(2)
	})

	Describe("Store", func() {
		Describe("If cache under limit", func() {
			It("should store element", func() {
				Expect(c.Store("test")).To(BeTrue())
				Expect(c.Store("test2")).To(BeTrue())
				Expect(c.Len()).To(Equal(2))
			})
		})
		Describe("If cache exceeds limit", func() {
			It("should remove the oldest element", func() {
				c.Store("test")
				c.Store("test2")
				c.Store("test3")
				Expect(c.Len()).To(Equal(2))
				Expect(c.InCache("test")).To(BeFalse())
				Expect(c.InCache("test2")).To(BeTrue())
				Expect(c.InCache("test3")).To(BeTrue())
			})
		})
		Describe("If element already stored", func() {
			It("should return false", func() {
				c.Store("test")
				Expect(c.Store("test")).To(BeFalse())
				Expect(c.Len()).To(Equal(1))
			})
		})
	})

	Describe("InCache", func() {
		It("should tell stored elements apart", func() {
			c.Store("test")
			Expect(c.InCache("test")).To(BeTrue())
			Expect(c.InCache("inexistant")).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should empty the cache", func() {
			c.Store("test")
			c.Reset()
			Expect(c.Len()).To(Equal(0))
			Expect(c.InCache("test")).To(BeFalse())
		})
	})
})
