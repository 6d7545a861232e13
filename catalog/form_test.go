package catalog

import "testing"

func intPtr(n int) *int { return &n }

func TestSelectShelfClearsSection(t *testing.T) {
	var f BookForm
	f.SelectShelf(1)
	f.SelectSection(10)

	f.SelectShelf(2)
	if f.SectionID != 0 {
		t.Fatalf("section %d survived a shelf change", f.SectionID)
	}

	// Re-selecting the same shelf keeps the section.
	f.SelectSection(20)
	f.SelectShelf(2)
	if f.SectionID != 20 {
		t.Fatalf("section cleared without a shelf change")
	}
}

func TestApplyLookupOverwritesAndBlanks(t *testing.T) {
	f := BookForm{
		ISBN:      "9780441013593",
		Title:     "typed title",
		Authors:   "typed authors",
		Genre:     "typed genre",
		Publisher: "typed publisher",
		PubYear:   "1900",
		PageCount: "1",
		Language:  "pt",
		CoverURL:  "http://old",
		Notes:     "keep me",
	}

	f.ApplyLookup(&Book{
		Title:     "Dune",
		Authors:   "Frank Herbert",
		PageCount: intPtr(412),
	})

	if f.Title != "Dune" || f.Authors != "Frank Herbert" || f.PageCount != "412" {
		t.Fatalf("lookup fields not applied: %+v", f)
	}
	// Fields absent from the lookup stay blank, not their prior values.
	if f.Genre != "" || f.Publisher != "" || f.PubYear != "" || f.Language != "" || f.CoverURL != "" {
		t.Fatalf("stale descriptive fields survived lookup: %+v", f)
	}
	if f.ISBN != "9780441013593" || f.Notes != "keep me" {
		t.Fatalf("non-descriptive fields should be kept: %+v", f)
	}
}

func TestApplyLookupMissLeavesCleared(t *testing.T) {
	f := BookForm{Title: "typed", Authors: "typed", Genre: "typed"}
	f.ApplyLookup(nil)
	if f.Title != "" || f.Authors != "" || f.Genre != "" {
		t.Fatalf("miss should leave the form cleared: %+v", f)
	}
}

func TestBuildRequiresTitleAndAuthors(t *testing.T) {
	f := BookForm{Title: "Dune"}
	if _, err := f.Build(); err == nil {
		t.Fatal("expected error without authors")
	}
	f = BookForm{Authors: "Herbert"}
	if _, err := f.Build(); err == nil {
		t.Fatal("expected error without title")
	}
}

func TestBuildParsesNumerics(t *testing.T) {
	f := BookForm{Title: "Dune", Authors: "Herbert", PubYear: "1965", PageCount: "412"}
	b, err := f.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if b.PubYear == nil || *b.PubYear != 1965 {
		t.Fatalf("wrong year: %v", b.PubYear)
	}
	if b.PageCount == nil || *b.PageCount != 412 {
		t.Fatalf("wrong page count: %v", b.PageCount)
	}
}

func TestBuildBlankNumericsAreNil(t *testing.T) {
	f := BookForm{Title: "Dune", Authors: "Herbert", PageCount: "  "}
	b, err := f.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if b.PubYear != nil || b.PageCount != nil || b.ShelfSectionID != nil {
		t.Fatalf("blank fields should be nil: %+v", b)
	}
}

func TestBuildRejectsBadNumerics(t *testing.T) {
	f := BookForm{Title: "Dune", Authors: "Herbert", PageCount: "many"}
	if _, err := f.Build(); err == nil {
		t.Fatal("expected error for non-numeric page count")
	}
}

func TestBuildCarriesSection(t *testing.T) {
	var f BookForm
	f.Title, f.Authors = "Dune", "Herbert"
	f.SelectShelf(1)
	f.SelectSection(7)

	b, err := f.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if b.ShelfSectionID == nil || *b.ShelfSectionID != 7 {
		t.Fatalf("section not carried: %v", b.ShelfSectionID)
	}
}

func TestFailedBuildKeepsValues(t *testing.T) {
	f := BookForm{
		ISBN:      "9780441013593",
		Title:     "Dune",
		Authors:   "Frank Herbert",
		Genre:     "Ficção",
		PageCount: "many",
		Notes:     "typed notes",
		ShelfID:   1,
		SectionID: 7,
	}
	before := f
	if _, err := f.Build(); err == nil {
		t.Fatal("expected error for non-numeric page count")
	}
	if f != before {
		t.Fatalf("rejected build changed the form: %+v", f)
	}

	// Same for a missing required field.
	f = BookForm{Title: "Dune", PubYear: "1965"}
	before = f
	if _, err := f.Build(); err == nil {
		t.Fatal("expected error without authors")
	}
	if f != before {
		t.Fatalf("rejected build changed the form: %+v", f)
	}
}

func TestReset(t *testing.T) {
	f := BookForm{Title: "Dune", Authors: "Herbert", ShelfID: 1, SectionID: 2}
	f.Reset()
	if f != (BookForm{}) {
		t.Fatalf("form not reset: %+v", f)
	}
}

func TestSearchURL(t *testing.T) {
	got := SearchURL("Dune", "Frank Herbert")
	want := "https://www.google.com/search?q=Dune+Frank+Herbert+book"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	// Empty authors must not leave a dangling gap in the query.
	got = SearchURL("Dune", "")
	want = "https://www.google.com/search?q=Dune+book"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
