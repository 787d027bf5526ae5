// Package treesitter drives a compiled mustache_json5 tree-sitter grammar
// through go-tree-sitter and converts its trees into syntax trees.
package treesitter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"mjson5/internal/engine/grammar"
)

// Symbol is the C function a compiled grammar exports.
const Symbol = "tree_sitter_" + grammar.LanguageName

// Manifest pins the compiled grammar artifacts a deployment trusts.
type Manifest struct {
	Version            int        `toml:"version"`
	AllowedABIVersions []int      `toml:"allowed_abi_versions"`
	Artifacts          []Artifact `toml:"artifacts"`
}

type Artifact struct {
	Language         string `toml:"language"`
	ABIVersion       int    `toml:"abi_version"`
	SharedObjectPath string `toml:"so_path"`
	SharedObjectHash string `toml:"so_sha256"`
	Source           string `toml:"source,omitempty"`
	ApprovedDate     string `toml:"approved_date,omitempty"`
}

func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	var manifest Manifest
	if _, err := toml.Decode(string(data), &manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if err := manifest.normalize(); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

func (m *Manifest) normalize() error {
	if m.Version <= 0 {
		return fmt.Errorf("manifest version must be > 0")
	}
	if len(m.AllowedABIVersions) == 0 {
		return fmt.Errorf("manifest must define allowed_abi_versions")
	}
	if len(m.Artifacts) == 0 {
		return fmt.Errorf("manifest must define at least one artifact")
	}

	seen := make(map[string]bool, len(m.Artifacts))
	for i, artifact := range m.Artifacts {
		ref := fmt.Sprintf("artifacts[%d]", i)
		artifact.Language = strings.TrimSpace(strings.ToLower(artifact.Language))
		artifact.SharedObjectPath = strings.TrimSpace(artifact.SharedObjectPath)
		artifact.SharedObjectHash = strings.TrimSpace(strings.ToLower(artifact.SharedObjectHash))
		artifact.Source = strings.TrimSpace(artifact.Source)
		artifact.ApprovedDate = strings.TrimSpace(artifact.ApprovedDate)

		if artifact.Language == "" {
			return fmt.Errorf("%s.language must not be empty", ref)
		}
		if seen[artifact.Language] {
			return fmt.Errorf("duplicate language entry %q in manifest", artifact.Language)
		}
		seen[artifact.Language] = true
		if artifact.ABIVersion <= 0 {
			return fmt.Errorf("%s.abi_version must be > 0", ref)
		}
		if artifact.SharedObjectPath == "" || artifact.SharedObjectHash == "" {
			return fmt.Errorf("%s.so_path and so_sha256 must not be empty", ref)
		}
		artifact.SharedObjectPath = filepath.Clean(artifact.SharedObjectPath)
		m.Artifacts[i] = artifact
	}
	return nil
}

// Artifact returns the entry for language, if any.
func (m Manifest) Artifact(language string) (Artifact, bool) {
	for _, artifact := range m.Artifacts {
		if artifact.Language == language {
			return artifact, true
		}
	}
	return Artifact{}, false
}

// Save writes the manifest as TOML.
func (m Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(m)
}

// AddArtifact pins the shared object at soPath, relative to baseDir.
func (m *Manifest) AddArtifact(baseDir, soPath, source string) error {
	hash, err := CalculateSHA256(filepath.Join(baseDir, soPath))
	if err != nil {
		return err
	}
	artifact := Artifact{
		Language:         grammar.LanguageName,
		ABIVersion:       grammar.ABIVersion,
		SharedObjectPath: filepath.Clean(soPath),
		SharedObjectHash: hash,
		Source:           source,
		ApprovedDate:     time.Now().UTC().Format("2006-01-02"),
	}
	for i, existing := range m.Artifacts {
		if existing.Language == artifact.Language {
			m.Artifacts[i] = artifact
			return nil
		}
	}
	m.Artifacts = append(m.Artifacts, artifact)
	return nil
}

func CalculateSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
