package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

// Language is a supported UI language.
type Language string

const (
	LangSpanish Language = "es"
	LangEnglish Language = "en"
	DefaultLang Language = LangSpanish
)

var languages = []Language{LangSpanish, LangEnglish}

//go:embed locales/*.json
var builtin embed.FS

// translations holds every loaded locale.
var translations = struct {
	sync.RWMutex
	data map[Language]map[string]string
}{data: make(map[Language]map[string]string)}

func init() {
	if err := Load(builtin); err != nil {
		panic(err)
	}
}

// Load replaces the translations with locales/<lang>.json from fsys.
func Load(fsys fs.FS) error {
	loaded := make(map[Language]map[string]string, len(languages))
	for _, lang := range languages {
		path := "locales/" + string(lang) + ".json"
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read locale %s: %w", path, err)
		}
		var langData map[string]string
		if err := json.Unmarshal(data, &langData); err != nil {
			return fmt.Errorf("parse locale %s: %w", path, err)
		}
		loaded[lang] = langData
	}

	translations.Lock()
	translations.data = loaded
	translations.Unlock()
	return nil
}

// T returns the translation of key, falling back to Spanish and then to the key itself.
func T(key string, lang Language) string {
	translations.RLock()
	defer translations.RUnlock()

	if text, ok := translations.data[lang][key]; ok {
		return text
	}
	if lang != DefaultLang {
		if text, ok := translations.data[DefaultLang][key]; ok {
			return text
		}
	}
	return key
}

// Tf returns a formatted translation.
func Tf(key string, lang Language, args ...any) string {
	template := T(key, lang)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// IsValidLanguage reports whether lang is supported.
func IsValidLanguage(lang string) bool {
	switch Language(strings.ToLower(strings.TrimSpace(lang))) {
	case LangSpanish, LangEnglish:
		return true
	default:
		return false
	}
}

// ParseLanguage converts a string (or a Telegram language code like "en-US") to a Language.
func ParseLanguage(lang string) Language {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.HasPrefix(lang, string(LangEnglish)) {
		return LangEnglish
	}
	return LangSpanish
}
