package catalog

import (
	"net/url"
	"strings"
)

// Book is the record exchanged verbatim with the backend. JSON keys follow
// the API's Portuguese wire names. The numeric fields and the section
// reference are pointers so a blank input serializes as null rather than 0.
type Book struct {
	ID             int64  `json:"id,omitempty"`
	ISBN           string `json:"isbn"`
	Title          string `json:"titulo"`
	Authors        string `json:"autores"`
	Notes          string `json:"notas_pessoais"`
	Genre          string `json:"genero"`
	Publisher      string `json:"editora"`
	PubYear        *int   `json:"ano_publicacao"`
	PageCount      *int   `json:"numero_paginas"`
	Language       string `json:"idioma"`
	CoverURL       string `json:"capa_url"`
	ShelfSectionID *int64 `json:"id_prateleira"`

	// Filled in by the backend on listings only.
	ShelfName   string `json:"nome_estante,omitempty"`
	SectionName string `json:"nome_prateleira,omitempty"`
}

// Shelf ("estante") is a top-level named storage location for books.
type Shelf struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// ShelfSection ("prateleira") is a named subdivision belonging to one shelf.
type ShelfSection struct {
	ID        int64  `json:"id"`
	Name      string `json:"nome"`
	ShelfID   int64  `json:"id_estante"`
	ShelfName string `json:"nome_estante,omitempty"`
}

// Session is the persisted login state.
type Session struct {
	Token    string
	Username string
}

// CoverPlaceholderURL is shown for books without a cover image.
const CoverPlaceholderURL = "https://placehold.co/96x144/cccccc/333333?text=Sem+Capa"

// SearchURL builds the external search link shown with each book.
func SearchURL(title, authors string) string {
	q := strings.Join(strings.Fields(title+" "+authors+" book"), " ")
	return "https://www.google.com/search?q=" + url.QueryEscape(q)
}
