//go:build cgo && !windows

package treesitter

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef const void* (*ts_language_fn)(void);

const void* load_ts_lang(const char* path, const char* name) {
    void* handle = dlopen(path, RTLD_LAZY);
    if (!handle) return NULL;
    void* sym = dlsym(handle, name);
    if (!sym) return NULL;
    return ((ts_language_fn)sym)();
}
*/
import "C"
import (
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"mjson5/internal/core/errors"
)

// LoadDynamic loads the compiled mustache_json5 grammar from a shared object
// and calls its language function.
func LoadDynamic(path string) (*sitter.Language, error) {
	cPath := C.CString(path)
	cSymbol := C.CString(Symbol)
	defer C.free(unsafe.Pointer(cPath))
	defer C.free(unsafe.Pointer(cSymbol))

	ptr := C.load_ts_lang(cPath, cSymbol)
	if ptr == nil {
		err := errors.Newf(errors.CodeGrammar, "failed to load %s", Symbol)
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return sitter.NewLanguage(unsafe.Pointer(ptr)), nil
}
