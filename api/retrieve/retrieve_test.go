package retrieve_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/logger"
	testutils "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/utils/test"
)

func TestRetrieve(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Retrieve Suite")
}

var _ = Describe("Retriever", func() {
	var (
		embedder  *testutils.MockEmbedder
		store     *testutils.MockStore
		retriever *retrieve.Retriever
		ctx       context.Context
	)

	doc1 := chunks.Document{ID: "d1", URL: "https://example.go.jp/kaigi/1", Council: "社会保障審議会", Ministry: "厚生労働省"}
	doc2 := chunks.Document{ID: "d2", URL: "https://example.go.jp/kaigi/2", Council: "中央環境審議会", Ministry: "環境省"}

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		embedder.Embeddings["医療DX"] = []float32{1, 0, 0}

		store = testutils.NewMockStore()
		store.Chunks = []chunks.Chunk{
			{ID: "c1", Document: doc1, Ordinal: 0, Text: "医療DXの推進について", Mode: chunks.ModeRaw, Embedding: []float32{1, 0, 0}},
			{ID: "c2", Document: doc1, Ordinal: 1, Text: "オンライン資格確認の状況", Mode: chunks.ModeRaw, Embedding: []float32{0.8, 0.6, 0}},
			{ID: "c3", Document: doc2, Ordinal: 0, Text: "温室効果ガス削減目標", Mode: chunks.ModeRaw, Embedding: []float32{0, 1, 0}},
			{ID: "s1", Document: doc1, Ordinal: 0, Summary: "医療DX推進の論点整理", Mode: chunks.ModeSummary, Embedding: []float32{0.9, 0.1, 0}},
		}

		var err error
		retriever, err = retrieve.NewRetriever(embedder, store, logger.New())
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("NewRetriever", func() {
		It("requires all dependencies", func() {
			_, err := retrieve.NewRetriever(nil, store, logger.New())
			Expect(err).To(HaveOccurred())

			_, err = retrieve.NewRetriever(embedder, nil, logger.New())
			Expect(err).To(HaveOccurred())

			_, err = retrieve.NewRetriever(embedder, store, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Search", func() {
		It("ranks raw chunks by similarity", func() {
			out, err := retriever.Search(ctx, "医療DX", 5, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Mode).To(Equal(chunks.ModeRaw))
			Expect(out.Count).To(Equal(3))
			Expect(out.Results).To(HaveLen(3))
			Expect(out.Results[0].ChunkID).To(Equal("c1"))
			Expect(out.Results[0].Score).To(BeNumerically("~", 1.0, 1e-6))
			Expect(out.Results[1].ChunkID).To(Equal("c2"))
			Expect(out.Results[2].ChunkID).To(Equal("c3"))
		})

		It("truncates to topK", func() {
			out, err := retriever.Search(ctx, "医療DX", 2, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results).To(HaveLen(2))
		})

		It("returns raw chunk text as content", func() {
			out, err := retriever.Search(ctx, "医療DX", 1, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results[0].Content).To(Equal("医療DXの推進について"))
		})

		It("applies the ministry filter", func() {
			out, err := retriever.Search(ctx, "医療DX", 5, chunks.Filter{Ministry: "環境省"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results).To(HaveLen(1))
			Expect(out.Results[0].ChunkID).To(Equal("c3"))
		})

		It("returns an empty result for an empty candidate pool", func() {
			store.Chunks = nil

			out, err := retriever.Search(ctx, "医療DX", 5, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results).To(BeEmpty())
			Expect(out.Count).To(BeZero())
		})

		It("rejects an empty query before any embedding or store work", func() {
			_, err := retriever.Search(ctx, "   ", 5, chunks.Filter{})

			var inputErr *retrieve.InputError
			Expect(errors.As(err, &inputErr)).To(BeTrue())
			Expect(inputErr.Field).To(Equal("query"))

			Expect(embedder.Calls).To(BeZero())
			Expect(store.CandidatesCalls).To(BeZero())
		})

		It("rejects non-positive topK before any embedding or store work", func() {
			for _, k := range []int{0, -3} {
				_, err := retriever.Search(ctx, "医療DX", k, chunks.Filter{})

				var inputErr *retrieve.InputError
				Expect(errors.As(err, &inputErr)).To(BeTrue())
				Expect(inputErr.Field).To(Equal("top_k"))
			}

			Expect(embedder.Calls).To(BeZero())
			Expect(store.CandidatesCalls).To(BeZero())
		})

		It("propagates embedding failures", func() {
			embedder.FailAlways = true

			_, err := retriever.Search(ctx, "医療DX", 5, chunks.Filter{})
			Expect(err).To(HaveOccurred())
			Expect(store.CandidatesCalls).To(BeZero())
		})

		It("propagates store unavailability", func() {
			store.FailCandidates = chunks.ErrUnavailable

			_, err := retriever.Search(ctx, "医療DX", 5, chunks.Filter{})
			Expect(err).To(MatchError(chunks.ErrUnavailable))
		})

		It("surfaces dimension mismatches in stored chunks", func() {
			store.Chunks = append(store.Chunks, chunks.Chunk{
				ID: "bad", Document: doc1, Mode: chunks.ModeRaw, Embedding: []float32{1, 0},
			})

			_, err := retriever.Search(ctx, "医療DX", 5, chunks.Filter{})

			var dimErr *chunks.DimensionError
			Expect(errors.As(err, &dimErr)).To(BeTrue())
			Expect(dimErr.ChunkID).To(Equal("bad"))
		})
	})

	Describe("SummarySearch", func() {
		It("ranks summary chunks and returns summary content", func() {
			out, err := retriever.SummarySearch(ctx, "医療DX", 5, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Mode).To(Equal(chunks.ModeSummary))
			Expect(out.Results).To(HaveLen(1))
			Expect(out.Results[0].ChunkID).To(Equal("s1"))
			Expect(out.Results[0].Content).To(Equal("医療DX推進の論点整理"))
		})
	})

	Describe("SearchGrouped", func() {
		It("aggregates chunks per document", func() {
			out, err := retriever.SearchGrouped(ctx, "医療DX", 5, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Results).To(HaveLen(2))
			// doc1 matched twice, doc2 once.
			Expect(out.Results[0].Document.URL).To(Equal(doc1.URL))
			Expect(out.Results[0].MatchCount).To(Equal(2))
			Expect(out.Results[0].BestChunk.ChunkID).To(Equal("c1"))
			Expect(out.Results[1].Document.URL).To(Equal(doc2.URL))
			Expect(out.Results[1].MatchCount).To(Equal(1))
		})

		It("limits the number of documents to topK", func() {
			out, err := retriever.SearchGrouped(ctx, "医療DX", 1, chunks.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Results).To(HaveLen(1))
			Expect(out.Count).To(Equal(1))
		})

		It("validates topK like ungrouped search", func() {
			_, err := retriever.SearchGrouped(ctx, "医療DX", 0, chunks.Filter{})

			var inputErr *retrieve.InputError
			Expect(errors.As(err, &inputErr)).To(BeTrue())
		})
	})
})

var _ = Describe("GroupByDocument", func() {
	docA := chunks.Document{ID: "a", URL: "https://example.go.jp/a"}
	docB := chunks.Document{ID: "b", URL: "https://example.go.jp/b"}

	It("orders by match count before mean score", func() {
		results := []retrieve.Result{
			{ChunkID: "b1", Document: docB, Score: 0.99},
			{ChunkID: "a1", Document: docA, Score: 0.7},
			{ChunkID: "a2", Document: docA, Score: 0.6},
		}

		grouped := retrieve.GroupByDocument(results, 0)
		Expect(grouped).To(HaveLen(2))
		Expect(grouped[0].Document.URL).To(Equal(docA.URL))
		Expect(grouped[0].MatchCount).To(Equal(2))
		Expect(grouped[0].MeanScore).To(BeNumerically("~", 0.65, 1e-9))
		Expect(grouped[1].Document.URL).To(Equal(docB.URL))
	})

	It("keeps the first seen chunk as the best chunk", func() {
		results := []retrieve.Result{
			{ChunkID: "a1", Document: docA, Score: 0.9},
			{ChunkID: "a2", Document: docA, Score: 0.5},
		}

		grouped := retrieve.GroupByDocument(results, 0)
		Expect(grouped[0].BestChunk.ChunkID).To(Equal("a1"))
	})

	It("returns an empty slice for no results", func() {
		Expect(retrieve.GroupByDocument(nil, 5)).To(BeEmpty())
	})
})
