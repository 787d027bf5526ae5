package treesitter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"mjson5/internal/core/errors"
	"mjson5/internal/engine/grammar"
)

type VerificationIssue struct {
	Language     string
	ArtifactPath string
	ExpectedHash string
	ActualHash   string
	Reason       string
}

func (i VerificationIssue) String() string {
	if i.ArtifactPath == "" {
		return fmt.Sprintf("%s: %s", i.Language, i.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Language, i.Reason, i.ArtifactPath)
}

// VerifyArtifacts checks every artifact's ABI version and checksum against
// the files under baseDir.
func VerifyArtifacts(baseDir string, manifest Manifest) ([]VerificationIssue, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("baseDir must not be empty")
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("grammar base path is not a directory: %s", baseDir)
	}

	allowed := make(map[int]bool, len(manifest.AllowedABIVersions))
	for _, version := range manifest.AllowedABIVersions {
		allowed[version] = true
	}

	issues := make([]VerificationIssue, 0)
	for _, artifact := range manifest.Artifacts {
		if !allowed[artifact.ABIVersion] {
			issues = append(issues, VerificationIssue{
				Language: artifact.Language,
				Reason:   fmt.Sprintf("unsupported ABI version %d", artifact.ABIVersion),
			})
		}
		issues = append(issues, verifyHash(baseDir, artifact)...)
	}
	if _, ok := manifest.Artifact(grammar.LanguageName); !ok {
		issues = append(issues, VerificationIssue{
			Language: grammar.LanguageName,
			Reason:   "language missing from manifest",
		})
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Language != issues[j].Language {
			return issues[i].Language < issues[j].Language
		}
		if issues[i].ArtifactPath != issues[j].ArtifactPath {
			return issues[i].ArtifactPath < issues[j].ArtifactPath
		}
		return issues[i].Reason < issues[j].Reason
	})
	return issues, nil
}

func verifyHash(baseDir string, artifact Artifact) []VerificationIssue {
	actual, err := CalculateSHA256(filepath.Join(baseDir, artifact.SharedObjectPath))
	if err != nil {
		return []VerificationIssue{{
			Language:     artifact.Language,
			ArtifactPath: artifact.SharedObjectPath,
			ExpectedHash: artifact.SharedObjectHash,
			ActualHash:   "<missing>",
			Reason:       "artifact missing or unreadable",
		}}
	}
	if actual == artifact.SharedObjectHash {
		return nil
	}
	return []VerificationIssue{{
		Language:     artifact.Language,
		ArtifactPath: artifact.SharedObjectPath,
		ExpectedHash: artifact.SharedObjectHash,
		ActualHash:   actual,
		Reason:       "checksum mismatch",
	}}
}

// LoadVerified loads the grammar pinned by the manifest at manifestPath.
// With verify set, any verification issue refuses the load.
func LoadVerified(manifestPath string, verify bool) (*sitter.Language, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeGrammar, "load grammar manifest"), errors.CtxPath, manifestPath)
	}
	baseDir := filepath.Dir(manifestPath)
	artifact, ok := manifest.Artifact(grammar.LanguageName)
	if !ok {
		return nil, errors.Newf(errors.CodeGrammar, "manifest %s has no %s artifact", manifestPath, grammar.LanguageName)
	}
	if verify {
		issues, err := VerifyArtifacts(baseDir, manifest)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeGrammar, "verify grammar artifacts")
		}
		if len(issues) > 0 {
			return nil, errors.Newf(errors.CodeGrammar, "grammar verification failed: %s", issues[0])
		}
	}
	return LoadDynamic(filepath.Join(baseDir, artifact.SharedObjectPath))
}
