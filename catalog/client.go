package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const statusSuccess = "sucesso"

// APIError is an application-level failure: the backend answered with a
// well-formed envelope whose status is not the success sentinel. Transport
// failures (unreachable host, malformed body) are plain wrapped errors.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %q", e.Status)
}

// Client wraps every HTTP call to the catalog backend. It attaches the
// bearer token to authenticated requests and decodes the JSON envelope.
// No retries, no local validation beyond the envelope status.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient returns a client for the backend at baseURL. A nil hc uses a
// default http.Client.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// SetToken arms (or, with "", disarms) the bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// envelope is the response convention shared by every route.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"mensagem"`
}

func (e envelope) apiErr() error {
	if e.Status == statusSuccess {
		return nil
	}
	return &APIError{Status: e.Status, Message: e.Message}
}

// do sends one request and decodes the body into out. Errors returned here
// are transport-tier; callers check the envelope for the application tier.
func (c *Client) do(method, path string, authed bool, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reach backend: %w", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login authenticates and returns the issued token.
func (c *Client) Login(username, password string) (string, error) {
	var resp struct {
		envelope
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(http.MethodPost, "/login", false, body, &resp); err != nil {
		return "", err
	}
	if err := resp.apiErr(); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account. Email may be empty.
func (c *Client) Register(username, password, email string) error {
	var resp struct{ envelope }
	body := map[string]string{"username": username, "password": password, "email": email}
	if err := c.do(http.MethodPost, "/registrar", false, body, &resp); err != nil {
		return err
	}
	return resp.apiErr()
}

// FetchBooks lists the current user's books.
func (c *Client) FetchBooks() ([]Book, error) {
	var resp struct {
		envelope
		Books []Book `json:"livros"`
	}
	if err := c.do(http.MethodGet, "/livros", true, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	return resp.Books, nil
}

// AddBook creates a book for the current user.
func (c *Client) AddBook(b Book) error {
	var resp struct{ envelope }
	if err := c.do(http.MethodPost, "/livros", true, b, &resp); err != nil {
		return err
	}
	return resp.apiErr()
}

// SearchBookByISBN looks up book metadata. The route is unauthenticated.
// A success envelope without a book payload is reported as an APIError so
// the caller treats it like any other miss.
func (c *Client) SearchBookByISBN(isbn string) (*Book, error) {
	var resp struct {
		envelope
		Book *Book `json:"livro"`
	}
	path := "/livros/buscar-isbn?isbn=" + url.QueryEscape(isbn)
	if err := c.do(http.MethodGet, path, false, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	if resp.Book == nil {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("no book found for ISBN %s", isbn)
		}
		return nil, &APIError{Status: resp.Status, Message: msg}
	}
	return resp.Book, nil
}

// FetchShelves lists the current user's shelves.
func (c *Client) FetchShelves() ([]Shelf, error) {
	var resp struct {
		envelope
		Shelves []Shelf `json:"estantes"`
	}
	if err := c.do(http.MethodGet, "/estantes", true, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	return resp.Shelves, nil
}

// AddShelf creates a shelf and returns the stored record.
func (c *Client) AddShelf(name string) (*Shelf, error) {
	var resp struct {
		envelope
		Shelf *Shelf `json:"estante"`
	}
	body := map[string]string{"nome": name}
	if err := c.do(http.MethodPost, "/estantes", true, body, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	return resp.Shelf, nil
}

// FetchShelfSections lists the sections of one shelf.
func (c *Client) FetchShelfSections(shelfID int64) ([]ShelfSection, error) {
	var resp struct {
		envelope
		Sections []ShelfSection `json:"prateleiras"`
	}
	path := fmt.Sprintf("/estantes/%d/prateleiras", shelfID)
	if err := c.do(http.MethodGet, path, true, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	return resp.Sections, nil
}

// FetchAllShelfSections lists every section of the current user, each
// annotated with its parent shelf's name.
func (c *Client) FetchAllShelfSections() ([]ShelfSection, error) {
	var resp struct {
		envelope
		Sections []ShelfSection `json:"prateleiras"`
	}
	if err := c.do(http.MethodGet, "/prateleiras", true, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	return resp.Sections, nil
}

// AddShelfSection creates a section under the given shelf.
func (c *Client) AddShelfSection(shelfID int64, name string) (*ShelfSection, error) {
	var resp struct {
		envelope
		Section *ShelfSection `json:"prateleira"`
	}
	body := map[string]string{"nome": name}
	path := fmt.Sprintf("/estantes/%d/prateleiras", shelfID)
	if err := c.do(http.MethodPost, path, true, body, &resp); err != nil {
		return nil, err
	}
	if err := resp.apiErr(); err != nil {
		return nil, err
	}
	return resp.Section, nil
}
