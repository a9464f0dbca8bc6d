// Package i18n holds the UI dictionaries and the active language.
//
// Dictionaries are embedded YAML tables keyed by language code. A lookup
// tries the active language, then English, then returns the key itself, so
// a partially translated dictionary never renders an empty label.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const FallbackLanguage = "en"

var ErrUnknownLanguage = errors.New("unknown language")

//go:embed locales/*.yaml
var localeFS embed.FS

var rtlLanguages = map[string]bool{"ar": true}

type Store struct {
	mu     sync.RWMutex
	lang   string
	tables map[string]map[string]string
}

// New loads the embedded dictionaries and activates defaultLang.
func New(defaultLang string) (*Store, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	if _, ok := tables[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("missing %s dictionary", FallbackLanguage)
	}

	s := &Store{lang: FallbackLanguage, tables: tables}
	if defaultLang != "" {
		if err := s.SetLanguage(defaultLang); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func loadTables() (map[string]map[string]string, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		data, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		tables[strings.TrimSuffix(name, path.Ext(name))] = table
	}
	return tables, nil
}

// Language returns the active language code.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Languages lists the available codes in a stable order, English first.
func (s *Store) Languages() []string {
	codes := make([]string, 0, len(s.tables))
	for code := range s.tables {
		if code != FallbackLanguage {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return append([]string{FallbackLanguage}, codes...)
}

// SetLanguage switches the active language. Regional tags such as "ru-RU"
// select their base language.
func (s *Store) SetLanguage(code string) error {
	base, err := Normalize(code)
	if err != nil {
		return err
	}
	if _, ok := s.tables[base]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
	}

	s.mu.Lock()
	s.lang = base
	s.mu.Unlock()
	return nil
}

// Normalize reduces a BCP 47 tag to its base language code.
func Normalize(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Dir is the text direction of the active language.
func (s *Store) Dir() string {
	if rtlLanguages[s.Language()] {
		return "rtl"
	}
	return "ltr"
}

// T resolves key in the active language. kv holds name/value pairs that
// replace {{name}} placeholders.
func (s *Store) T(key string, kv ...any) string {
	return s.Lookup(s.Language(), key, kv...)
}

// Lookup resolves key in lang regardless of the active language.
func (s *Store) Lookup(lang, key string, kv ...any) string {
	text, ok := s.tables[lang][key]
	if !ok {
		text, ok = s.tables[FallbackLanguage][key]
	}
	if !ok {
		text = key
	}
	return interpolate(text, kv)
}

func interpolate(text string, kv []any) string {
	if len(kv) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{{"+fmt.Sprint(kv[i])+"}}", fmt.Sprint(kv[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
