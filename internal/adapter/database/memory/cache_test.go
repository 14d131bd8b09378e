package memory

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestCacheSetGetDelete(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	cache := NewCacheRepository(time.Minute)
	defer cache.Close()

	g.Expect(cache.Set(ctx, "cache:/api/tasks:abc", []byte(`{"data":[]}`), time.Minute)).To(Succeed())

	value, err := cache.Get(ctx, "cache:/api/tasks:abc")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(value).To(Equal([]byte(`{"data":[]}`)))

	g.Expect(cache.Delete(ctx, "cache:/api/tasks:abc")).To(Succeed())

	value, err = cache.Get(ctx, "cache:/api/tasks:abc")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(value).To(BeNil())
}

func TestCacheMissReturnsNil(t *testing.T) {
	g := NewWithT(t)

	cache := NewCacheRepository(time.Minute)
	defer cache.Close()

	value, err := cache.Get(context.Background(), "missing")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(value).To(BeNil())
}

func TestCacheDeleteByPrefix(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	cache := NewCacheRepository(time.Minute)
	defer cache.Close()

	g.Expect(cache.Set(ctx, "cache:/api/tasks:a", []byte("1"), time.Minute)).To(Succeed())
	g.Expect(cache.Set(ctx, "cache:/api/tasks:b", []byte("2"), time.Minute)).To(Succeed())
	g.Expect(cache.Set(ctx, "other:key", []byte("3"), time.Minute)).To(Succeed())

	g.Expect(cache.DeleteByPrefix(ctx, "cache:")).To(Succeed())

	value, _ := cache.Get(ctx, "cache:/api/tasks:a")
	g.Expect(value).To(BeNil())

	value, _ = cache.Get(ctx, "other:key")
	g.Expect(value).To(Equal([]byte("3")))
}
