package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/credentials"
)

func TestCredentials(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Credentials Suite")
}

var _ = Describe("Manager", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "credentials-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("NewManager", func() {
		It("creates a manager with an override directory", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr).NotTo(BeNil())
			Expect(mgr.GetTarget()).To(Equal(filepath.Join(tmpDir, "credentials.toml")))
		})
	})

	Describe("Load", func() {
		It("returns empty credentials when no file exists", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds).NotTo(BeNil())
			Expect(creds.Providers).To(BeEmpty())
		})

		It("loads existing credentials", func() {
			data := `version = 0

[providers.openai]
api_key = "sk-test-key"
`
			err := os.WriteFile(filepath.Join(tmpDir, "credentials.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			creds, err := mgr.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Providers).To(HaveKey("openai"))
			Expect(creds.Providers["openai"].APIKey).To(Equal("sk-test-key"))
		})

		It("returns error for malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "credentials.toml"), []byte("not valid [[["), 0o600)
			Expect(err).NotTo(HaveOccurred())

			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			creds, err := mgr.Load()
			Expect(err).To(HaveOccurred())
			Expect(creds).To(BeNil())
		})
	})

	Describe("Save", func() {
		It("persists credentials to disk with restricted permissions", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			creds := &credentials.Credentials{
				Providers: map[string]credentials.ProviderCredential{
					"openai": {APIKey: "sk-test"},
				},
			}
			err = mgr.Save(creds)
			Expect(err).NotTo(HaveOccurred())

			info, err := os.Stat(filepath.Join(tmpDir, "credentials.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("returns error for nil credentials", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = mgr.Save(nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetKey", func() {
		It("stores a new API key", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = mgr.SetKey("openai", "sk-new-key")
			Expect(err).NotTo(HaveOccurred())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("sk-new-key"))
		})

		It("overwrites an existing key", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = mgr.SetKey("openai", "sk-old")
			Expect(err).NotTo(HaveOccurred())

			err = mgr.SetKey("openai", "sk-new")
			Expect(err).NotTo(HaveOccurred())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("sk-new"))
		})
	})

	Describe("GetKey", func() {
		It("returns empty string for unknown provider", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			key, err := mgr.GetKey("nonexistent")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
		})
	})

	Describe("ResolveKey", func() {
		It("prefers the environment variable over the stored key", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(mgr.SetKey("openai", "sk-stored")).To(Succeed())

			origKey := os.Getenv("OPENAI_API_KEY")
			Expect(os.Setenv("OPENAI_API_KEY", "sk-env")).To(Succeed())
			DeferCleanup(func() { os.Setenv("OPENAI_API_KEY", origKey) })

			key, err := mgr.ResolveKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("sk-env"))
		})

		It("falls back to the stored key when the env var is unset", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(mgr.SetKey("openai", "sk-stored")).To(Succeed())

			origKey := os.Getenv("OPENAI_API_KEY")
			Expect(os.Unsetenv("OPENAI_API_KEY")).To(Succeed())
			DeferCleanup(func() { os.Setenv("OPENAI_API_KEY", origKey) })

			key, err := mgr.ResolveKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("sk-stored"))
		})
	})

	Describe("RemoveKey", func() {
		It("removes an existing key", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = mgr.SetKey("openai", "sk-test")
			Expect(err).NotTo(HaveOccurred())

			err = mgr.RemoveKey("openai")
			Expect(err).NotTo(HaveOccurred())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
		})

		It("is a no-op for nonexistent provider", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = mgr.RemoveKey("nonexistent")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListProviders", func() {
		It("returns empty list when no credentials stored", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			providers, err := mgr.ListProviders()
			Expect(err).NotTo(HaveOccurred())
			Expect(providers).To(BeEmpty())
		})
	})
})

var _ = Describe("Credentials", func() {
	Describe("KeyFor", func() {
		creds := &credentials.Credentials{
			Providers: map[string]credentials.ProviderCredential{
				"openai": {APIKey: "sk-test"},
				"empty":  {},
			},
		}

		It("returns the stored key", func() {
			key, ok := creds.KeyFor("openai")
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal("sk-test"))
		})

		It("reports missing providers", func() {
			_, ok := creds.KeyFor("unknown")
			Expect(ok).To(BeFalse())
		})

		It("treats an empty stored key as absent", func() {
			_, ok := creds.KeyFor("empty")
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("EnvVarForProvider", func() {
	It("returns OPENAI_API_KEY for openai", func() {
		Expect(credentials.EnvVarForProvider("openai")).To(Equal("OPENAI_API_KEY"))
	})

	It("returns empty string for unknown provider", func() {
		Expect(credentials.EnvVarForProvider("unknown")).To(BeEmpty())
	})
})

var _ = Describe("IsSupportedProvider", func() {
	It("returns true for openai", func() {
		Expect(credentials.IsSupportedProvider("openai")).To(BeTrue())
	})

	It("returns false for unsupported providers", func() {
		Expect(credentials.IsSupportedProvider("local")).To(BeFalse())
		Expect(credentials.IsSupportedProvider("unknown")).To(BeFalse())
	})
})
