package config

const (
	defaultStorageProvider   = "sqlite"
	defaultStorageTarget     = ":memory:"
	defaultStorageCollection = "minutes_chunks"

	defaultAPIListen       = ":8080"
	defaultClientAPITarget = "http://localhost:8080"

	defaultEmbeddingProvider       = "openai"
	defaultEmbeddingModel          = "text-embedding-3-small"
	defaultEmbeddingDimensions     = 1536
	defaultEmbeddingTimeoutSeconds = 10
	defaultEmbeddingMaxInputChars  = 8000

	defaultRetrievalDefaultTopK    = 5
	defaultRetrievalMaxTopK        = 20
	defaultRetrievalSummaryMaxTopK = 100

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "minutes.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider:   defaultStorageProvider,
			Target:     defaultStorageTarget,
			Collection: defaultStorageCollection,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Embedding: EmbeddingConfig{
			Provider:       defaultEmbeddingProvider,
			Model:          defaultEmbeddingModel,
			Dimensions:     defaultEmbeddingDimensions,
			TimeoutSeconds: defaultEmbeddingTimeoutSeconds,
			MaxInputChars:  defaultEmbeddingMaxInputChars,
		},
		Retrieval: RetrievalConfig{
			DefaultTopK:    defaultRetrievalDefaultTopK,
			MaxTopK:        defaultRetrievalMaxTopK,
			SummaryMaxTopK: defaultRetrievalSummaryMaxTopK,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
