package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// fakeBackend implements just enough of the API for manager tests: one
// known account plus whatever register creates.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	accounts := map[string]string{"alice": "pw1"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login":
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if accounts[creds["username"]] == creds["password"] && creds["password"] != "" {
				_ = json.NewEncoder(w).Encode(map[string]string{
					"status": "sucesso",
					"token":  "tok-" + creds["username"],
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "erro", "mensagem": "credenciais inválidas"})
		case "/registrar":
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			accounts[creds["username"]] = creds["password"]
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "sucesso"})
		case "/livros":
			if r.Header.Get("Authorization") == "" {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "erro", "mensagem": "token ausente"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "sucesso", "livros": []Book{}})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "erro", "mensagem": "rota desconhecida"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func tempManager(t *testing.T, baseURL, path string) *Manager {
	t.Helper()
	mgr, err := NewManager(baseURL, path, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestLoginPersistsSession(t *testing.T) {
	srv := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "session.db")

	mgr := tempManager(t, srv.URL, path)
	if mgr.LoggedIn() {
		t.Fatal("fresh manager should not be logged in")
	}

	if err := mgr.Login("alice", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !mgr.LoggedIn() || mgr.Username() != "alice" {
		t.Fatalf("expected active session for alice")
	}

	// A new manager over the same store picks the session up again.
	reopened := tempManager(t, srv.URL, path)
	if !reopened.LoggedIn() || reopened.Username() != "alice" {
		t.Fatal("session did not survive restart")
	}
	if _, err := reopened.Books(); err != nil {
		t.Fatalf("books with restored session: %v", err)
	}
}

func TestFailedLoginLeavesSessionEmpty(t *testing.T) {
	srv := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "session.db")

	mgr := tempManager(t, srv.URL, path)
	if err := mgr.Login("alice", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}
	if mgr.LoggedIn() {
		t.Fatal("failed login must not create a session")
	}

	reopened := tempManager(t, srv.URL, path)
	if reopened.LoggedIn() {
		t.Fatal("failed login must not persist anything")
	}
}

func TestRegisterThenChainedLogin(t *testing.T) {
	srv := fakeBackend(t)

	mgr := tempManager(t, srv.URL, filepath.Join(t.TempDir(), "session.db"))
	if err := mgr.Register("bob", "pw2", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if mgr.LoggedIn() {
		t.Fatal("register alone must not log in")
	}
	if err := mgr.Login("bob", "pw2"); err != nil {
		t.Fatalf("chained login: %v", err)
	}

	// Equivalent to a direct login with the same credentials.
	direct := tempManager(t, srv.URL, filepath.Join(t.TempDir(), "direct.db"))
	if err := direct.Login("bob", "pw2"); err != nil {
		t.Fatalf("direct login: %v", err)
	}
	if mgr.Username() != direct.Username() {
		t.Fatalf("sessions differ: %q vs %q", mgr.Username(), direct.Username())
	}
}

func TestLogoutClearsPersistedSession(t *testing.T) {
	srv := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "session.db")

	mgr := tempManager(t, srv.URL, path)
	if err := mgr.Login("alice", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := mgr.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if mgr.LoggedIn() {
		t.Fatal("still logged in after logout")
	}

	reopened := tempManager(t, srv.URL, path)
	if reopened.LoggedIn() {
		t.Fatal("logout did not clear the persisted session")
	}
}

func TestDataOperationsRequireLogin(t *testing.T) {
	srv := fakeBackend(t)
	mgr := tempManager(t, srv.URL, filepath.Join(t.TempDir(), "session.db"))

	if _, err := mgr.Books(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if err := mgr.AddBook(Book{Title: "x", Authors: "y"}); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := mgr.Shelves(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
