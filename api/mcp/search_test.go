package mcp

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/logger"
	testutils "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/utils/test"
)

var _ = Describe("Retrieval tools", func() {
	var (
		server   *Server
		embedder *testutils.MockEmbedder
		store    *testutils.MockStore
		ctx      context.Context
	)

	doc := chunks.Document{ID: "d1", URL: "https://example.go.jp/kaigi/1", Council: "社会保障審議会", Ministry: "厚生労働省"}

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		embedder.Embeddings["医療DX"] = []float32{1, 0, 0}

		store = testutils.NewMockStore()
		store.Chunks = []chunks.Chunk{
			{ID: "c1", Document: doc, Ordinal: 0, Text: "医療DXの推進について", Mode: chunks.ModeRaw, Embedding: []float32{1, 0, 0}},
			{ID: "s1", Document: doc, Ordinal: 0, Summary: "医療DX推進の論点整理", Mode: chunks.ModeSummary, Embedding: []float32{0.9, 0.1, 0}},
		}

		retriever, err := retrieve.NewRetriever(embedder, store, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		server, err = NewServer(Config{
			Retriever: retriever,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Describe("handleSearch", func() {
		It("returns ranked chunks with JSON text content", func() {
			result, output, err := server.handleSearch(ctx, &sdkmcp.CallToolRequest{}, SearchInput{Query: "医療DX"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.Count).To(Equal(1))
			Expect(output.Results[0].ChunkID).To(Equal("c1"))
			Expect(output.Results[0].Content).To(Equal("医療DXの推進について"))

			Expect(result.Content).To(HaveLen(1))
			text, ok := result.Content[0].(*sdkmcp.TextContent)
			Expect(ok).To(BeTrue())

			var roundTrip retrieve.Output
			Expect(json.Unmarshal([]byte(text.Text), &roundTrip)).To(Succeed())
			Expect(roundTrip.Count).To(Equal(1))
		})

		It("defaults topK when omitted", func() {
			_, output, err := server.handleSearch(ctx, &sdkmcp.CallToolRequest{}, SearchInput{Query: "医療DX"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Count).To(Equal(1))
		})

		It("treats a non-positive topK as omitted", func() {
			result, output, err := server.handleSearch(ctx, &sdkmcp.CallToolRequest{}, SearchInput{Query: "医療DX", TopK: -2})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.Count).To(Equal(1))
		})

		It("reports retrieval failures as tool errors", func() {
			store.FailCandidates = chunks.ErrUnavailable

			result, _, err := server.handleSearch(ctx, &sdkmcp.CallToolRequest{}, SearchInput{Query: "医療DX"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})

		It("reports an empty query as a tool error", func() {
			result, _, err := server.handleSearch(ctx, &sdkmcp.CallToolRequest{}, SearchInput{Query: ""})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("handleSummarySearch", func() {
		It("returns summary chunks", func() {
			_, output, err := server.handleSummarySearch(ctx, &sdkmcp.CallToolRequest{}, SearchInput{Query: "医療DX"})
			Expect(err).NotTo(HaveOccurred())

			Expect(output.Mode).To(Equal(chunks.ModeSummary))
			Expect(output.Results).To(HaveLen(1))
			Expect(output.Results[0].Content).To(Equal("医療DX推進の論点整理"))
		})
	})
})
