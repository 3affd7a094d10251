package mcp_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/mcp"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/api/retrieve"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/logger"
	testutils "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/utils/test"
)

func TestMCP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MCP Suite")
}

var _ = Describe("MCP Server", func() {
	var (
		server    *mcp.Server
		retriever *retrieve.Retriever
	)

	BeforeEach(func() {
		var err error
		retriever, err = retrieve.NewRetriever(testutils.NewMockEmbedder(), testutils.NewMockStore(), logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		server, err = mcp.NewServer(mcp.Config{
			Retriever: retriever,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when retriever is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Logger: logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("retriever is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Retriever: retriever,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates a server with valid config", func() {
			Expect(server).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			handler := server.Handler()
			Expect(handler).NotTo(BeNil())
		})

		It("creates a noop server without dependencies", func() {
			noop, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(noop).NotTo(BeNil())
		})
	})
})
