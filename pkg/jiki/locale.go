package jiki

import (
	"embed"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"
)

// SystemLocale renders messages as "Kind: key: value" and is what tests
// compare against.
const SystemLocale = "system"

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	catalogOnce sync.Once
	catalogs    map[language.Tag]map[Kind]string
	catalogTags []language.Tag
	matcher     language.Matcher
)

var placeholder = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

func loadCatalogs() {
	catalogs = map[language.Tag]map[Kind]string{}
	var tags []language.Tag

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		LogErrf(ErrAssert, "could not read embedded locales: %s", err)
	}
	// English first, so the matcher falls back to it
	for _, name := range []string{"en.yaml"} {
		tags = append(tags, loadCatalog(name))
	}
	for _, entry := range entries {
		if entry.Name() == "en.yaml" {
			continue
		}
		tags = append(tags, loadCatalog(entry.Name()))
	}
	catalogTags = tags
	matcher = language.NewMatcher(tags)
}

func loadCatalog(name string) language.Tag {
	data, err := localeFS.ReadFile("locales/" + name)
	if err != nil {
		LogErrf(ErrAssert, "could not read locale %s: %s", name, err)
	}

	var catalog map[Kind]string
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		LogErrf(ErrAssert, "malformed locale %s: %s", name, err)
	}

	tag := language.MustParse(strings.TrimSuffix(name, ".yaml"))
	catalogs[tag] = catalog
	return tag
}

// Locales lists the locales with a message catalog.
func Locales() []string {
	catalogOnce.Do(loadCatalogs)
	out := []string{SystemLocale}
	for tag := range catalogs {
		out = append(out, tag.String())
	}
	return out
}

// Translate renders the message for an error kind in the given locale. The
// closest catalog wins; kinds missing from it fall back to English and then
// to the system form.
func Translate(locale string, kind Kind, context map[string]any) string {
	if locale == "" || locale == SystemLocale {
		return systemMessage(kind, context)
	}
	catalogOnce.Do(loadCatalogs)

	desired, err := language.Parse(locale)
	if err != nil {
		return systemMessage(kind, context)
	}
	_, index, _ := matcher.Match(desired)
	tag := catalogTags[index]

	template, ok := catalogs[tag][kind]
	if !ok && kind != KindNodeNotAllowed && strings.HasSuffix(string(kind), "NotAllowed") {
		template, ok = catalogs[tag][KindNodeNotAllowed]
	}
	if !ok {
		tag = language.English
		if template, ok = catalogs[tag][kind]; !ok {
			return systemMessage(kind, context)
		}
	}

	p := message.NewPrinter(tag)
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := context[key]
		if !ok {
			return m
		}
		switch n := v.(type) {
		case int:
			return p.Sprintf("%v", number.Decimal(n))
		case float64:
			return p.Sprintf("%v", number.Decimal(n))
		case Number:
			return p.Sprintf("%v", number.Decimal(float64(n)))
		}
		return contextString(v)
	})
}
