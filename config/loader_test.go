package config_test

import (
	"bytes"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/indexhq/indexd/config"
)

var _ = Describe("Loader", func() {
	var (
		fs     afero.Fs
		logBuf *bytes.Buffer
		log    *slog.Logger
		loader *config.Loader
	)

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		logBuf = &bytes.Buffer{}
		log = slog.New(slog.NewTextHandler(logBuf, nil))
		loader = config.NewLoader(fs, "/app", log)
	})

	writeFile := func(name, content string) {
		Expect(afero.WriteFile(fs, "/app/"+name, []byte(content), 0o644)).To(Succeed())
	}

	Describe("Discover", func() {
		Context("with no candidate present", func() {
			It("should report nothing to load", func() {
				name, err := loader.Discover()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(BeEmpty())
			})
		})

		Context("with a single candidate", func() {
			It("should find index.yaml", func() {
				writeFile("index.yaml", "port: 8080\n")

				name, err := loader.Discover()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal("index.yaml"))
			})

			It("should warn about the legacy config.json name", func() {
				writeFile("config.json", `{"port": 8080}`)

				name, err := loader.Discover()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal("config.json"))
				Expect(logBuf.String()).To(ContainSubstring("deprecated"))
			})

			It("should not warn about the current names", func() {
				writeFile("index.json", `{"port": 8080}`)

				_, err := loader.Discover()
				Expect(err).NotTo(HaveOccurred())
				Expect(logBuf.String()).NotTo(ContainSubstring("deprecated"))
			})
		})

		Context("with two candidates present", func() {
			It("should fail naming both files", func() {
				writeFile("config.json", `{}`)
				writeFile("index.yaml", "port: 8080\n")

				_, err := loader.Discover()
				Expect(err).To(HaveOccurred())

				var conflict *config.ConflictError
				Expect(errors.As(err, &conflict)).To(BeTrue())
				Expect(conflict.First).To(Equal("config.json"))
				Expect(conflict.Second).To(Equal("index.yaml"))
				Expect(err.Error()).To(ContainSubstring("config.json"))
				Expect(err.Error()).To(ContainSubstring("index.yaml"))
			})

			It("should fail for two files of the same format", func() {
				writeFile("index.yaml", "a: 1\n")
				writeFile("index.yml", "a: 1\n")

				_, err := loader.Discover()

				var conflict *config.ConflictError
				Expect(errors.As(err, &conflict)).To(BeTrue())
				Expect(conflict.First).To(Equal("index.yaml"))
				Expect(conflict.Second).To(Equal("index.yml"))
			})
		})
	})

	Describe("Load", func() {
		Context("with no candidate present", func() {
			It("should be a no-op", func() {
				data, name, err := loader.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(BeEmpty())
				Expect(data).To(BeNil())
			})
		})

		Context("with a JSON file", func() {
			It("should decode the mapping", func() {
				writeFile("index.json", `{"port": 8080, "debug": true}`)

				data, name, err := loader.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal("index.json"))
				Expect(data).To(HaveKeyWithValue("debug", true))
				Expect(data).To(HaveKey("port"))
			})

			It("should propagate decode failures with the filename", func() {
				writeFile("index.json", `{"port": `)

				_, _, err := loader.Load()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("parse index.json"))
			})
		})

		Context("with a YAML file", func() {
			It("should decode index.yaml", func() {
				writeFile("index.yaml", "port: 8080\nproduction:\n  host: 0.0.0.0\n")

				data, name, err := loader.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal("index.yaml"))
				Expect(data).To(HaveKey("production"))
			})

			It("should decode index.yml", func() {
				writeFile("index.yml", "port: 8080\n")

				_, name, err := loader.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(name).To(Equal("index.yml"))
			})

			It("should propagate decode failures with the filename", func() {
				writeFile("index.yaml", "port: [unclosed\n")

				_, _, err := loader.Load()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("parse index.yaml"))
			})
		})

		Context("with a root that is not a mapping", func() {
			It("should reject a list root", func() {
				writeFile("index.yaml", "- one\n- two\n")

				_, _, err := loader.Load()
				Expect(errors.Is(err, config.ErrNotMapping)).To(BeTrue())
			})

			It("should reject a scalar root", func() {
				writeFile("index.yaml", "just a string\n")

				_, _, err := loader.Load()
				Expect(errors.Is(err, config.ErrNotMapping)).To(BeTrue())
			})

			It("should reject an empty file", func() {
				writeFile("index.yaml", "")

				_, _, err := loader.Load()
				Expect(errors.Is(err, config.ErrNotMapping)).To(BeTrue())
			})

			It("should reject a JSON null root", func() {
				writeFile("index.json", "null")

				_, _, err := loader.Load()
				Expect(errors.Is(err, config.ErrNotMapping)).To(BeTrue())
			})
		})
	})
})
