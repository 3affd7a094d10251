package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/config"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/logger"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("NewDefaultConfig", func() {
	It("populates every section", func() {
		cfg := config.NewDefaultConfig()

		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.Storage.Provider).To(Equal("sqlite"))
		Expect(cfg.Storage.Target).To(Equal(":memory:"))
		Expect(cfg.API.Listen).To(Equal(":8080"))
		Expect(cfg.Client.APITarget).To(Equal("http://localhost:8080"))
		Expect(cfg.Embedding.Provider).To(Equal("openai"))
		Expect(cfg.Embedding.Model).To(Equal("text-embedding-3-small"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
		Expect(cfg.Retrieval.DefaultTopK).To(Equal(uint(5)))
		Expect(cfg.Retrieval.MaxTopK).To(Equal(uint(20)))
		Expect(cfg.Retrieval.SummaryMaxTopK).To(Equal(uint(100)))
		Expect(cfg.Events.Provider).To(Equal("nop"))
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("parses a full config", func() {
		data := []byte(`version = 0

[storage]
provider = "postgres"
target = "postgres://minutes@localhost:5432/minutes"

[embedding]
provider = "openai"
model = "text-embedding-3-small"
dimensions = 1536

[retrieval]
default_top_k = 3
`)
		cfg, err := config.ParseConfigTOML(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Provider).To(Equal("postgres"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
		Expect(cfg.Retrieval.DefaultTopK).To(Equal(uint(3)))
	})

	It("rejects an unsupported version", func() {
		_, err := config.ParseConfigTOML([]byte("version = 99\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects malformed TOML", func() {
		_, err := config.ParseConfigTOML([]byte("not valid [[["))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Configer", func() {
	var tmpDir string
	var cfger *config.Configer

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		cfger, err = config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("resolves the config file path inside the override dir", func() {
		Expect(cfger.GetTarget()).To(Equal(filepath.Join(tmpDir, "config.toml")))
	})

	Describe("LoadConfig", func() {
		It("returns defaults when no file exists", func() {
			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.Provider).To(Equal("sqlite"))
			Expect(cfg.Retrieval.MaxTopK).To(Equal(uint(20)))
		})

		It("merges defaults into partial configs", func() {
			data := `[storage]
provider = "qdrant"
target = "localhost:6334"
`
			Expect(os.WriteFile(cfger.GetTarget(), []byte(data), 0o600)).To(Succeed())

			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.Provider).To(Equal("qdrant"))
			Expect(cfg.Storage.Target).To(Equal("localhost:6334"))
			// Unset fields fall back to defaults.
			Expect(cfg.Embedding.Model).To(Equal("text-embedding-3-small"))
			Expect(cfg.API.Listen).To(Equal(":8080"))
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips through disk", func() {
			cfg := config.NewDefaultConfig()
			cfg.Storage.Provider = "postgres"
			cfg.Embedding.DisableExternal = true

			Expect(cfger.SaveConfig(cfg)).To(Succeed())

			loaded, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Storage.Provider).To(Equal("postgres"))
			Expect(loaded.Embedding.DisableExternal).To(BeTrue())
		})

		It("rejects nil config", func() {
			Expect(cfger.SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		It("sets and gets string keys", func() {
			Expect(cfger.SetConfigValue("api.listen", ":9090")).To(Succeed())

			val, err := cfger.GetConfigValue("api.listen")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal(":9090"))
		})

		It("sets and gets uint keys", func() {
			Expect(cfger.SetConfigValue("retrieval.default_top_k", "7")).To(Succeed())

			val, err := cfger.GetConfigValue("retrieval.default_top_k")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("7"))
		})

		It("sets and gets bool keys", func() {
			Expect(cfger.SetConfigValue("embedding.disable_external", "true")).To(Succeed())

			val, err := cfger.GetConfigValue("embedding.disable_external")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("true"))
		})

		It("rejects non-numeric values for uint keys", func() {
			Expect(cfger.SetConfigValue("embedding.dimensions", "lots")).To(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			Expect(cfger.SetConfigValue("nope.nope", "x")).To(HaveOccurred())

			_, err := cfger.GetConfigValue("nope.nope")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("covers every registered key exactly once", func() {
		keys := config.ValidConfigKeys()
		Expect(keys).NotTo(BeEmpty())

		seen := map[string]bool{}
		for _, k := range keys {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), "key %q", k)
			Expect(seen[k]).To(BeFalse(), "duplicate key %q", k)
			seen[k] = true
		}
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the openai preset", func() {
		cfg, err := config.PresetConfig("openai")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Embedding.Provider).To(Equal("openai"))
		Expect(cfg.Embedding.DisableExternal).To(BeFalse())
	})

	It("returns the local preset with external calls disabled", func() {
		cfg, err := config.PresetConfig("local")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Embedding.Provider).To(Equal("local"))
		Expect(cfg.Embedding.DisableExternal).To(BeTrue())
	})

	It("rejects unknown presets", func() {
		_, err := config.PresetConfig("mystery")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("applies defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("storage.provider")).To(Equal("sqlite"))
		Expect(v.GetUint("retrieval.max_top_k")).To(Equal(uint(20)))
	})

	It("reads values from config.toml", func() {
		data := `[api]
listen = ":7070"
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("api.listen")).To(Equal(":7070"))
	})

	It("lets MINUTES_ environment variables override the file", func() {
		Expect(os.Setenv("MINUTES_API_LISTEN", ":6060")).To(Succeed())
		DeferCleanup(func() { os.Unsetenv("MINUTES_API_LISTEN") })

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.GetString("api.listen")).To(Equal(":6060"))
	})
})

var _ = Describe("Watcher", func() {
	var tmpDir string
	var cfger *config.Configer

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "watcher-test-*")
		Expect(err).NotTo(HaveOccurred())

		cfger, err = config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SaveConfig(config.NewDefaultConfig())).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("invokes the callback when the config file changes", func() {
		reloaded := make(chan *config.Config, 1)
		w, err := config.NewWatcher(cfger, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		}, logger.New())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx) }()

		// Give the watcher a moment to register before writing.
		time.Sleep(100 * time.Millisecond)

		Expect(cfger.SetConfigValue("embedding.disable_external", "true")).To(Succeed())

		Eventually(reloaded, 5*time.Second).Should(Receive(HaveField("Embedding.DisableExternal", BeTrue())))

		cancel()
		Eventually(done, 2*time.Second).Should(Receive(MatchError(context.Canceled)))
	})

	It("requires a watchable config file", func() {
		_, err := config.NewWatcher(nil, func(*config.Config) {}, logger.New())
		Expect(err).To(HaveOccurred())
	})
})
