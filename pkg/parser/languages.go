package parser

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
	"github.com/evanw/esbuild/pkg/api"
)

// Supported language names.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

var languageFuncs = map[string]func() unsafe.Pointer{
	LangJavaScript: javascript.GetLanguage,
	LangTypeScript: typescript.GetLanguage,
	LangTSX:        tsx.GetLanguage,
}

// The JavaScript grammar accepts JSX, so esbuild gets the JSX loader for it.
var esbuildLoaders = map[string]api.Loader{
	LangJavaScript: api.LoaderJSX,
	LangTypeScript: api.LoaderTS,
	LangTSX:        api.LoaderTSX,
}

var extensionLanguages = map[string]string{
	".js":  LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".jsx": LangJavaScript,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
}

var languageCache sync.Map

// getLanguage returns the tree-sitter Language for the given name, or nil if not supported.
func getLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// Languages returns the supported language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(languageFuncs))
	for name := range languageFuncs {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Extensions returns the file extensions the parser understands, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensionLanguages))
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}

	slices.Sort(exts)

	return exts
}

// LanguageForFile maps a file name to a language by extension.
func LanguageForFile(path string) (string, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]

	return lang, ok
}
