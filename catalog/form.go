package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// BookForm holds the add-book fields exactly as typed. Numeric fields stay
// raw text until Build, which is where parse errors surface.
type BookForm struct {
	ISBN      string
	Title     string
	Authors   string
	Notes     string
	Genre     string
	Publisher string
	PubYear   string
	PageCount string
	Language  string
	CoverURL  string

	ShelfID   int64 // 0 = none selected
	SectionID int64 // 0 = none selected
}

// SelectShelf records the shelf choice and drops any section picked under a
// previous shelf: a section choice is only ever valid for the current shelf.
func (f *BookForm) SelectShelf(id int64) {
	if f.ShelfID != id {
		f.SectionID = 0
	}
	f.ShelfID = id
}

// SelectSection records the section choice under the current shelf.
func (f *BookForm) SelectSection(id int64) { f.SectionID = id }

// ClearDescriptive blanks every field an ISBN lookup may fill. The ISBN
// itself, the notes and the location choice are kept.
func (f *BookForm) ClearDescriptive() {
	f.Title, f.Authors, f.Genre, f.Publisher = "", "", "", ""
	f.PubYear, f.PageCount, f.Language, f.CoverURL = "", "", "", ""
}

// ApplyLookup clears the descriptive fields and overwrites them with the
// lookup result. Fields the lookup did not return stay blank; a nil result
// leaves the form in its cleared state.
func (f *BookForm) ApplyLookup(b *Book) {
	f.ClearDescriptive()
	if b == nil {
		return
	}
	f.Title = b.Title
	f.Authors = b.Authors
	f.Genre = b.Genre
	f.Publisher = b.Publisher
	if b.PubYear != nil {
		f.PubYear = strconv.Itoa(*b.PubYear)
	}
	if b.PageCount != nil {
		f.PageCount = strconv.Itoa(*b.PageCount)
	}
	f.Language = b.Language
	f.CoverURL = b.CoverURL
}

// Build validates the required fields and converts the raw inputs into the
// wire record. Blank numerics and an unselected section become JSON null.
func (f *BookForm) Build() (Book, error) {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Authors) == "" {
		return Book{}, fmt.Errorf("title and authors are required")
	}

	b := Book{
		ISBN:      strings.TrimSpace(f.ISBN),
		Title:     strings.TrimSpace(f.Title),
		Authors:   strings.TrimSpace(f.Authors),
		Notes:     f.Notes,
		Genre:     strings.TrimSpace(f.Genre),
		Publisher: strings.TrimSpace(f.Publisher),
		Language:  strings.TrimSpace(f.Language),
		CoverURL:  strings.TrimSpace(f.CoverURL),
	}

	year, err := parseOptionalInt("publication year", f.PubYear)
	if err != nil {
		return Book{}, err
	}
	pages, err := parseOptionalInt("page count", f.PageCount)
	if err != nil {
		return Book{}, err
	}
	b.PubYear = year
	b.PageCount = pages

	if f.SectionID != 0 {
		id := f.SectionID
		b.ShelfSectionID = &id
	}
	return b, nil
}

// Reset returns every field to its initial empty value.
func (f *BookForm) Reset() { *f = BookForm{} }

func parseOptionalInt(label, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", label, raw)
	}
	return &n, nil
}
