package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source resolves a secret by key. Sources are tried in priority order and the
// first hit wins.
type Source interface {
	Name() string
	Lookup(key string) (string, bool)
}

// ConfigurationMissing is returned when every source was tried and none had
// the key. It names all sources so a misconfigured deployment is diagnosable
// from a single error message.
type ConfigurationMissing struct {
	Key     string
	Sources []string
}

func (e *ConfigurationMissing) Error() string {
	return fmt.Sprintf("configuration %q not found (tried: %s)", e.Key, strings.Join(e.Sources, ", "))
}

// EnvSource reads from process environment variables. godotenv has already
// merged the .env file into the environment by the time this runs.
type EnvSource struct{}

func (EnvSource) Name() string { return "env" }

func (EnvSource) Lookup(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// FileSource reads a single-value key file (e.g. gemini_api_key.txt) relative
// to the config base path. A dev-machine fallback, last in the chain.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Lookup(key string) (string, bool) {
	p := s.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(GetBasePath(), p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(data))
	return v, v != ""
}

// Resolve tries each source in order and returns the first value found.
func Resolve(key string, sources ...Source) (string, error) {
	tried := make([]string, 0, len(sources))
	for _, s := range sources {
		if v, ok := s.Lookup(key); ok {
			return v, nil
		}
		tried = append(tried, s.Name())
	}
	return "", &ConfigurationMissing{Key: key, Sources: tried}
}

// GeminiAPIKey resolves the generation service credential from the standard
// source chain: environment (incl. .env), then a local key file.
func GeminiAPIKey() (string, error) {
	return Resolve("GEMINI_API_KEY", EnvSource{}, FileSource{Path: "gemini_api_key.txt"})
}

// MongoURI resolves the remote store address. The yaml value acts as the
// default when no environment override is present.
func MongoURI() string {
	if v, err := Resolve("MONGO_URI", EnvSource{}); err == nil {
		return v
	}
	return GetConfig().Mongo.URI
}
