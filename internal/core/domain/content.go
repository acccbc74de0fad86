package domain

import (
	"context"
	"errors"
)

var (
	ErrProviderFailure  = errors.New("content provider failed")
	ErrMalformedContent = errors.New("content provider returned a malformed payload")
	ErrUnknownVersion   = errors.New("unknown bible version")
)

type BibleVersion string

const (
	VersionKJA  BibleVersion = "King James Atualizada"
	VersionNVI  BibleVersion = "NVI"
	VersionARA  BibleVersion = "ARA"
	VersionNTLH BibleVersion = "NTLH"

	DefaultVersion = VersionKJA
)

var Versions = []BibleVersion{VersionKJA, VersionNVI, VersionARA, VersionNTLH}

// ParseVersion accepts a version name or its short code. Empty means the
// default version.
func ParseVersion(s string) (BibleVersion, error) {
	if s == "" {
		return DefaultVersion, nil
	}
	for _, v := range Versions {
		if string(v) == s {
			return v, nil
		}
	}
	if s == "KJA" {
		return VersionKJA, nil
	}
	return "", ErrUnknownVersion
}

type Verse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// ValidVerses reports whether every verse is numbered from 1 up.
func ValidVerses(verses []Verse) bool {
	for _, v := range verses {
		if v.Verse < 1 {
			return false
		}
	}
	return true
}

type DailyPause struct {
	Verse      string `json:"verse"`
	Reference  string `json:"reference"`
	Reflection string `json:"reflection"`
	Question   string `json:"question"`
}

type Devotional struct {
	Title   string `json:"title"`
	Verse   string `json:"verse"`
	Content string `json:"content"`
	Theme   string `json:"theme"`
}

var DevotionalThemes = []string{"Fé", "Família", "Ansiedade", "Propósito", "Oração", "Perdão"}

type OutputSchema string

const (
	SchemaDailyPause  OutputSchema = "daily_pause"
	SchemaDevotional  OutputSchema = "devotional"
	SchemaChapterText OutputSchema = "chapter_text"
)

// ContentGenerator returns the raw JSON the provider produced for the given
// schema. Any transport or provider error is returned as-is.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string, schema OutputSchema) ([]byte, error)
}

// ChapterFetcher loads chapter text on a cache miss.
type ChapterFetcher func(ctx context.Context, book string, chapter int, version BibleVersion) ([]Verse, error)
