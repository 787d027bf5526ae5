//go:build !cgo || windows

package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"mjson5/internal/core/errors"
)

// LoadDynamic returns an error where dlopen is unavailable.
func LoadDynamic(path string) (*sitter.Language, error) {
	return nil, errors.Newf(errors.CodeNotSupported, "dynamic grammar loading is not supported on this platform (%s)", path)
}
