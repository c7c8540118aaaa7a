package meta

import (
	"context"
	"strings"
	"sync"
)

var (
	langMu      sync.RWMutex                 //nolint:gochecknoglobals // guards langMap and defaultLang
	langMap     map[string]map[string]string //nolint:gochecknoglobals // for minimizing dependency injection across codebase
	defaultLang string                       //nolint:gochecknoglobals // for minimizing dependency injection across codebase
)

// SetLanguageMap registers translations per language (lang -> key -> text) and the
// language used when a request names none or an unknown one. Later calls merge
// their keys into the existing map.
func SetLanguageMap(m map[string]map[string]string, defLang string) {
	langMu.Lock()
	defer langMu.Unlock()

	if langMap == nil {
		langMap = make(map[string]map[string]string)
	}
	for lang, texts := range m {
		if langMap[lang] == nil {
			langMap[lang] = make(map[string]string, len(texts))
		}
		for k, v := range texts {
			langMap[lang][k] = v
		}
	}
	defaultLang = defLang
}

// Tr returns the translation of key for an Accept-Language value such as
// "id-ID,id;q=0.9,en;q=0.8". The first listed language with a translation wins,
// then the default language. Untranslated keys are returned marked.
func Tr(key, acceptLanguage string) string {
	langMu.RLock()
	defer langMu.RUnlock()

	for _, lang := range parseAcceptLanguage(acceptLanguage) {
		if res := langMap[lang][key]; res != "" {
			return res
		}
	}

	if res := langMap[defaultLang][key]; res != "" {
		return res
	}

	return "[untranslated]: " + key
}

// TrCtx returns the translated text using the language from the request context.
func TrCtx(ctx context.Context, key string) string {
	return Tr(key, Find(ctx, AcceptLanguage))
}

// parseAcceptLanguage returns the primary subtags in header order, ignoring weights.
func parseAcceptLanguage(header string) []string {
	if header == "" {
		return nil
	}

	var langs []string
	for part := range strings.SplitSeq(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0]) //nolint:mnd // tag and weight
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])     //nolint:mnd // primary subtag and region
		if tag != "" && tag != "*" {
			langs = append(langs, tag)
		}
	}
	return langs
}
