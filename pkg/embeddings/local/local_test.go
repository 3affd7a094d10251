package local_test

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings/local"
)

func TestLocal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Local Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var (
		embedder *local.Embedder
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		embedder, err = local.NewEmbedder(64)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("rejects non-positive dimensions", func() {
		_, err := local.NewEmbedder(0)
		Expect(err).To(HaveOccurred())

		_, err = local.NewEmbedder(-5)
		Expect(err).To(HaveOccurred())
	})

	It("produces vectors of the configured dimensionality", func() {
		vec, err := embedder.Embed(ctx, "社会保障審議会の議事録")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(HaveLen(64))
		Expect(embedder.Dimensions()).To(Equal(64))
	})

	It("is deterministic: identical text yields bit-identical vectors", func() {
		first, err := embedder.Embed(ctx, "医療DXの推進について")
		Expect(err).NotTo(HaveOccurred())
		second, err := embedder.Embed(ctx, "医療DXの推進について")
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("produces L2-normalized vectors", func() {
		vec, err := embedder.Embed(ctx, "regional healthcare digital transformation")
		Expect(err).NotTo(HaveOccurred())

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		Expect(math.Sqrt(norm)).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("distinguishes different texts", func() {
		a, err := embedder.Embed(ctx, "予算委員会")
		Expect(err).NotTo(HaveOccurred())
		b, err := embedder.Embed(ctx, "環境省の審議会")
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("handles text shorter than the n-gram size", func() {
		vec, err := embedder.Embed(ctx, "DX")
		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(HaveLen(64))

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		Expect(math.Sqrt(norm)).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("rejects empty and whitespace-only text", func() {
		_, err := embedder.Embed(ctx, "")
		Expect(err).To(MatchError(embeddings.ErrEmptyText))

		_, err = embedder.Embed(ctx, "   \n\t ")
		Expect(err).To(MatchError(embeddings.ErrEmptyText))
	})
})
