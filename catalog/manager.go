package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotLoggedIn is returned by operations that need a session when none is
// loaded.
var ErrNotLoggedIn = errors.New("not logged in")

// Manager ties the API client to the session store and is the single owner
// of the login state: views never touch storage or auth headers directly.
type Manager struct {
	api     *Client
	store   *SessionStore
	session Session
}

// NewManager opens the session store at sessionPath and, when a session is
// already persisted, arms the client with its token. A nil hc uses a
// default http.Client.
func NewManager(baseURL, sessionPath string, hc *http.Client) (*Manager, error) {
	store, err := NewSessionStore(sessionPath)
	if err != nil {
		return nil, err
	}
	sess, err := store.Load()
	if err != nil {
		store.Close()
		return nil, err
	}
	api := NewClient(baseURL, hc)
	api.SetToken(sess.Token)
	return &Manager{api: api, store: store, session: sess}, nil
}

// Close closes the session store.
func (m *Manager) Close() error { return m.store.Close() }

// LoggedIn reports whether a session token is loaded.
func (m *Manager) LoggedIn() bool { return m.session.Token != "" }

// Username returns the logged-in user's name, or "".
func (m *Manager) Username() string { return m.session.Username }

// Login authenticates and persists the session. On any failure the stored
// session is left untouched.
func (m *Manager) Login(username, password string) error {
	token, err := m.api.Login(username, password)
	if err != nil {
		return err
	}
	if err := m.store.Save(token, username); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.session = Session{Token: token, Username: username}
	m.api.SetToken(token)
	return nil
}

// Register creates the account. Callers chain Login themselves so a failed
// automatic login can be reported distinctly from a failed registration.
func (m *Manager) Register(username, password, email string) error {
	return m.api.Register(username, password, email)
}

// Logout clears the persisted session and disarms the client token.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.session = Session{}
	m.api.SetToken("")
	return nil
}

// ------------------ Data passthroughs ------------------

func (m *Manager) Books() ([]Book, error) {
	if !m.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.api.FetchBooks()
}

func (m *Manager) AddBook(b Book) error {
	if !m.LoggedIn() {
		return ErrNotLoggedIn
	}
	return m.api.AddBook(b)
}

// LookupISBN queries the unauthenticated metadata route.
func (m *Manager) LookupISBN(isbn string) (*Book, error) {
	return m.api.SearchBookByISBN(isbn)
}

func (m *Manager) Shelves() ([]Shelf, error) {
	if !m.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.api.FetchShelves()
}

func (m *Manager) Sections(shelfID int64) ([]ShelfSection, error) {
	if !m.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.api.FetchShelfSections(shelfID)
}

func (m *Manager) AllSections() ([]ShelfSection, error) {
	if !m.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.api.FetchAllShelfSections()
}

func (m *Manager) CreateShelf(name string) (*Shelf, error) {
	if !m.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.api.AddShelf(name)
}

func (m *Manager) CreateSection(shelfID int64, name string) (*ShelfSection, error) {
	if !m.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.api.AddShelfSection(shelfID, name)
}
