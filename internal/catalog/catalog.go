// Package catalog holds the static lesson content shipped with the app.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/vytor/learnearn/internal/models"
)

//go:embed lessons.yaml
var lessonsYAML []byte

// Catalog is an immutable language -> lessons -> questions mapping.
type Catalog struct {
	languages []models.Language
	byName    map[string]*models.Language
}

type document struct {
	Languages []models.Language `yaml:"languages"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, decoding it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(lessonsYAML)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that cannot continue without content.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Languages) == 0 {
		return nil, fmt.Errorf("catalog has no languages")
	}

	c := &Catalog{
		languages: doc.Languages,
		byName:    make(map[string]*models.Language, len(doc.Languages)),
	}
	seen := make(map[string]struct{})
	for i := range c.languages {
		lang := &c.languages[i]
		if _, dup := c.byName[lang.Name]; dup {
			return nil, fmt.Errorf("duplicate language %q", lang.Name)
		}
		c.byName[lang.Name] = lang

		for _, lesson := range lang.Lessons {
			if _, dup := seen[lesson.ID]; dup {
				return nil, fmt.Errorf("duplicate lesson id %q", lesson.ID)
			}
			seen[lesson.ID] = struct{}{}
			if err := validateLesson(lesson); err != nil {
				return nil, fmt.Errorf("lesson %s: %w", lesson.ID, err)
			}
		}
	}
	return c, nil
}

func validateLesson(l models.Lesson) error {
	if l.ID == "" {
		return fmt.Errorf("missing id")
	}
	if len(l.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	if l.Reward <= 0 {
		return fmt.Errorf("reward must be positive")
	}
	for i, q := range l.Questions {
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("question %d: correct index %d out of range", i, q.Correct)
		}
		if q.Reward <= 0 {
			return fmt.Errorf("question %d: reward must be positive", i)
		}
	}
	return nil
}

// Languages returns the languages in display order.
func (c *Catalog) Languages() []models.Language {
	return c.languages
}

func (c *Catalog) HasLanguage(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Lessons returns the ordered lessons for a language, or nil.
func (c *Catalog) Lessons(language string) []models.Lesson {
	lang, ok := c.byName[language]
	if !ok {
		return nil
	}
	return lang.Lessons
}

// Lesson finds a lesson by id within a language.
func (c *Catalog) Lesson(language, id string) (models.Lesson, bool) {
	return lo.Find(c.Lessons(language), func(l models.Lesson) bool {
		return l.ID == id
	})
}
