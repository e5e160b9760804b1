// Package locale provides the string catalog behind platform.Strings, with
// CLDR plural-form selection.
package locale

import (
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/arena-access/internal/logging"
)

//go:embed en.yaml
var englishCatalog []byte

// Catalog is a loaded set of strings for one language.
type Catalog struct {
	tag     language.Tag
	strings map[string]string
	plurals map[string]map[string]string
	lists   map[string][]string
	log     *logging.Logger

	mu      sync.Mutex
	missing map[string]bool
}

type catalogFile struct {
	Language string                       `yaml:"language"`
	Strings  map[string]string            `yaml:"strings"`
	Plurals  map[string]map[string]string `yaml:"plurals"`
	Lists    map[string][]string          `yaml:"lists"`
}

// English returns the built-in English catalog.
func English(log *logging.Logger) *Catalog {
	c, err := Parse(englishCatalog, log)
	if err != nil {
		// The embedded catalog is part of the binary; failing to parse it is a build defect.
		panic(fmt.Sprintf("locale: embedded catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog.
func Parse(data []byte, log *logging.Logger) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	tag, err := language.Parse(f.Language)
	if err != nil {
		return nil, fmt.Errorf("catalog language %q: %w", f.Language, err)
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Catalog{
		tag:     tag,
		strings: f.Strings,
		plurals: f.Plurals,
		lists:   f.Lists,
		log:     log.WithComponent("locale"),
		missing: make(map[string]bool),
	}, nil
}

// Language returns the catalog's language tag.
func (c *Catalog) Language() language.Tag { return c.tag }

// Get returns the string for key, or the key itself when it is missing.
func (c *Catalog) Get(key string) string {
	if s, ok := c.strings[key]; ok {
		return s
	}
	c.reportMissing(key)
	return key
}

// Format looks up key and applies fmt.Sprintf with args.
func (c *Catalog) Format(key string, args ...any) string {
	return fmt.Sprintf(c.Get(key), args...)
}

// Plural selects the plural form of baseKey for count and formats it with
// args. When no args are given the count is the only argument.
func (c *Catalog) Plural(count int, baseKey string, args ...any) string {
	if len(args) == 0 {
		args = []any{count}
	}
	forms, ok := c.plurals[baseKey]
	if !ok {
		c.reportMissing(baseKey)
		return fmt.Sprintf("%s %v", baseKey, count)
	}
	n := count
	if n < 0 {
		n = -n
	}
	form := plural.Cardinal.MatchPlural(c.tag, n, 0, 0, 0, 0)
	tmpl, ok := forms[formName(form)]
	if !ok {
		tmpl = forms["other"]
	}
	return fmt.Sprintf(tmpl, args...)
}

// Items returns a list entry, such as the help topics.
func (c *Catalog) Items(key string) []string {
	items, ok := c.lists[key]
	if !ok {
		c.reportMissing(key)
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func (c *Catalog) reportMissing(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.missing[key] {
		return
	}
	c.missing[key] = true
	c.log.Warn("missing locale key", "key", key)
}

func formName(f plural.Form) string {
	switch f {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	default:
		return "other"
	}
}
