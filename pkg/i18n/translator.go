package i18n

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the language every lookup ultimately falls back to.
const DefaultLanguage = "en"

// defaultBundle holds the built-in English texts. Bundle files on disk extend
// or override these; a key missing everywhere resolves to itself.
var defaultBundle = map[string]string{
	"heading.id":            "Response ID",
	"heading.token":         "Token",
	"heading.submitdate":    "Date submitted",
	"heading.startdate":     "Date started",
	"heading.datestamp":     "Date last action",
	"heading.ipaddr":        "IP address",
	"heading.refurl":        "Referrer URL",
	"heading.lastpage":      "Last page",
	"heading.startlanguage": "Start language",
	"heading.firstname":     "First name",
	"heading.lastname":      "Last name",
	"heading.email":         "Email address",
	"label.other":           "Other",
	"label.comment":         "Comment",
	"answer.yes":            "Yes",
	"answer.no":             "No",
	"export.record":         "Record",
}

// Translator resolves dictionary keys to localized texts. Bundles are plain
// YAML maps, one file per language (<dir>/<language>.yaml), loaded lazily on
// first use and cached until Invalidate is called.
type Translator struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	bundles map[string]map[string]string
}

// NewTranslator creates a translator reading bundles from dir. An empty dir
// means built-in texts only.
func NewTranslator(dir string) *Translator {
	return &Translator{
		dir:     dir,
		logger:  slog.Default().With("component", "i18n"),
		bundles: make(map[string]map[string]string),
	}
}

// Resolve returns the text for key in the given language. Lookup order: the
// language's bundle, the built-in English defaults, the key itself.
func (t *Translator) Resolve(key, language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	if text, ok := t.bundle(language)[key]; ok {
		return text
	}
	if text, ok := defaultBundle[key]; ok {
		return text
	}
	return key
}

// bundle returns the cached bundle for language, loading it on first use.
// Languages without a bundle file cache an empty map so the file system is
// consulted only once per language.
func (t *Translator) bundle(language string) map[string]string {
	t.mu.RLock()
	b, ok := t.bundles[language]
	t.mu.RUnlock()
	if ok {
		return b
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.bundles[language]; ok {
		return b
	}

	b = t.loadBundle(language)
	t.bundles[language] = b
	return b
}

// loadBundle reads the language's bundle file. Missing or unreadable bundles
// degrade to the built-in defaults.
func (t *Translator) loadBundle(language string) map[string]string {
	if t.dir == "" {
		return map[string]string{}
	}

	for _, name := range []string{language + ".yaml", language + ".yml"} {
		path := filepath.Join(t.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				t.logger.Warn("Failed to read translation bundle", "path", path, "error", err)
			}
			continue
		}

		bundle := map[string]string{}
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			t.logger.Warn("Failed to parse translation bundle", "path", path, "error", err)
			return map[string]string{}
		}

		t.logger.Debug("Translation bundle loaded", "language", language, "keys", len(bundle))
		return bundle
	}

	return map[string]string{}
}

// Invalidate drops all cached bundles so the next lookup reloads from disk.
func (t *Translator) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.bundles = make(map[string]map[string]string)
	t.logger.Debug("Translation cache invalidated")
}

// Languages lists the languages that have a bundle file in the bundle
// directory, always including the default language.
func (t *Translator) Languages() []string {
	set := map[string]bool{DefaultLanguage: true}
	if t.dir != "" {
		if entries, err := os.ReadDir(t.dir); err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				ext := filepath.Ext(e.Name())
				if ext != ".yaml" && ext != ".yml" {
					continue
				}
				set[strings.TrimSuffix(e.Name(), ext)] = true
			}
		}
	}

	langs := make([]string, 0, len(set))
	for lang := range set {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
