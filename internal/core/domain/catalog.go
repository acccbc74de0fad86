package domain

import "errors"

var (
	ErrUnknownBook       = errors.New("book is not part of the canonical catalog")
	ErrChapterOutOfRange = errors.New("chapter is out of range for book")
)

type BookCatalogEntry struct {
	Name         string `json:"name"`
	ChapterCount int    `json:"chapters"`
}

type ChapterRef struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

// Catalog is the canonical traversal order. Callers must not mutate it.
var Catalog = []BookCatalogEntry{
	{"Gênesis", 50}, {"Êxodo", 40}, {"Levítico", 27},
	{"Números", 36}, {"Deuteronômio", 34}, {"Josué", 24},
	{"Juízes", 21}, {"Rute", 4}, {"1 Samuel", 31},
	{"2 Samuel", 24}, {"1 Reis", 22}, {"2 Reis", 25},
	{"1 Crônicas", 29}, {"2 Crônicas", 36}, {"Esdras", 10},
	{"Neemias", 13}, {"Ester", 10}, {"Jó", 42},
	{"Salmos", 150}, {"Provérbios", 31}, {"Eclesiastes", 12},
	{"Cantares", 8}, {"Isaías", 66}, {"Jeremias", 52},
	{"Lamentações", 5}, {"Ezequiel", 48}, {"Daniel", 12},
	{"Oseias", 14}, {"Joel", 3}, {"Amós", 9},
	{"Obadias", 1}, {"Jonas", 4}, {"Miqueias", 7},
	{"Naum", 3}, {"Habacuque", 3}, {"Sofonias", 3},
	{"Ageu", 2}, {"Zacarias", 14}, {"Malaquias", 4},
	{"Mateus", 28}, {"Marcos", 16}, {"Lucas", 24},
	{"João", 21}, {"Atos", 28}, {"Romanos", 16},
	{"1 Coríntios", 16}, {"2 Coríntios", 13}, {"Gálatas", 6},
	{"Efésios", 6}, {"Filipenses", 4}, {"Colossenses", 4},
	{"1 Tessalonicenses", 5}, {"2 Tessalonicenses", 3}, {"1 Timóteo", 6},
	{"2 Timóteo", 4}, {"Tito", 3}, {"Filemom", 1},
	{"Hebreus", 13}, {"Tiago", 5}, {"1 Pedro", 5},
	{"2 Pedro", 3}, {"1 João", 5}, {"2 João", 1},
	{"3 João", 1}, {"Judas", 1}, {"Apocalipse", 22},
}

// BookIndex returns the canonical position of a book, or -1.
func BookIndex(name string) int {
	for i, b := range Catalog {
		if b.Name == name {
			return i
		}
	}
	return -1
}

func LookupBook(name string) (BookCatalogEntry, error) {
	idx := BookIndex(name)
	if idx < 0 {
		return BookCatalogEntry{}, ErrUnknownBook
	}
	return Catalog[idx], nil
}

func ValidateChapter(book string, chapter int) error {
	entry, err := LookupBook(book)
	if err != nil {
		return err
	}
	if chapter < 1 || chapter > entry.ChapterCount {
		return ErrChapterOutOfRange
	}
	return nil
}

func TotalChapters() int {
	total := 0
	for _, b := range Catalog {
		total += b.ChapterCount
	}
	return total
}

// NextChapter steps forward, crossing into the next book after the last
// chapter. ok is false at the end of the canon.
func NextChapter(book string, chapter int) (ChapterRef, bool) {
	idx := BookIndex(book)
	if idx < 0 {
		return ChapterRef{}, false
	}
	if chapter < Catalog[idx].ChapterCount {
		return ChapterRef{Book: book, Chapter: chapter + 1}, true
	}
	if idx == len(Catalog)-1 {
		return ChapterRef{}, false
	}
	return ChapterRef{Book: Catalog[idx+1].Name, Chapter: 1}, true
}

// PrevChapter steps back, landing on the last chapter of the previous book
// when stepping back from chapter 1.
func PrevChapter(book string, chapter int) (ChapterRef, bool) {
	idx := BookIndex(book)
	if idx < 0 {
		return ChapterRef{}, false
	}
	if chapter > 1 {
		return ChapterRef{Book: book, Chapter: chapter - 1}, true
	}
	if idx == 0 {
		return ChapterRef{}, false
	}
	prev := Catalog[idx-1]
	return ChapterRef{Book: prev.Name, Chapter: prev.ChapterCount}, true
}
