package main

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"book-catalog/catalog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "book-catalog",
		Short:         "Terminal client for the book catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	flags := cmd.Flags()
	flags.String("api-url", "", "base URL of the catalog API")
	flags.String("session", "", "path to the session database")
	flags.Int("timeout", 0, "HTTP timeout in seconds (0 disables)")
	_ = viper.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("session_path", flags.Lookup("session"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))

	cobra.OnInitialize(initConfig)
	return cmd
}

// initConfig layers defaults, an optional config file and BOOKCATALOG_* env
// vars under any flags set on the command line.
func initConfig() {
	viper.SetDefault("api_url", "http://127.0.0.1:5000")
	viper.SetDefault("session_path", "session.db")
	viper.SetDefault("timeout", 0)

	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".bookcatalog")
		viper.SetDefault("session_path", filepath.Join(dir, "session.db"))
		viper.AddConfigPath(dir)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("BOOKCATALOG")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // config file is optional
}

func run() error {
	hc := &http.Client{}
	if t := viper.GetInt("timeout"); t > 0 {
		hc.Timeout = time.Duration(t) * time.Second
	}

	mgr, err := catalog.NewManager(viper.GetString("api_url"), viper.GetString("session_path"), hc)
	if err != nil {
		return err
	}
	defer mgr.Close()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Welcome to the Book Catalog!")

	for {
		if mgr.LoggedIn() {
			if quit := dashboardLoop(scanner, mgr); quit {
				return nil
			}
		} else {
			if quit := authLoop(scanner, mgr); quit {
				return nil
			}
		}
	}
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// userMessage keeps backend-supplied messages verbatim and maps transport
// failures to a generic connectivity message.
func userMessage(err error) string {
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return fmt.Sprintf("connection error (%v)", err)
}

// ---------------------------------------------------------------------------
// Auth view
// ---------------------------------------------------------------------------

// authLoop runs until the user logs in (false) or quits (true).
func authLoop(sc *bufio.Scanner, mgr *catalog.Manager) bool {
	fmt.Println("\nYou are not logged in. Commands: login, register, exit")

	for {
		fmt.Print("\n> ")
		if !sc.Scan() {
			return true
		}
		switch strings.TrimSpace(sc.Text()) {
		case "login":
			if handleLogin(sc, mgr) {
				return false
			}
		case "register":
			if handleRegister(sc, mgr) {
				return false
			}
		case "exit":
			fmt.Println("Goodbye!")
			return true
		case "":
		default:
			fmt.Println("Unknown command. Type login, register or exit.")
		}
	}
}

func handleLogin(sc *bufio.Scanner, mgr *catalog.Manager) bool {
	fmt.Print("Username: ")
	if !sc.Scan() {
		return false
	}
	username := strings.TrimSpace(sc.Text())
	if username == "" {
		fmt.Println("Error: username cannot be empty")
		return false
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}
	if password == "" {
		fmt.Println("Error: password cannot be empty")
		return false
	}

	if err := mgr.Login(username, password); err != nil {
		fmt.Printf("Login failed: %s\n", userMessage(err))
		return false
	}
	fmt.Printf("Welcome, %s!\n", username)
	return true
}

func handleRegister(sc *bufio.Scanner, mgr *catalog.Manager) bool {
	fmt.Print("Username: ")
	if !sc.Scan() {
		return false
	}
	username := strings.TrimSpace(sc.Text())
	if username == "" {
		fmt.Println("Error: username cannot be empty")
		return false
	}

	password, err := readPassword(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}
	if password == "" {
		fmt.Println("Error: password cannot be empty")
		return false
	}

	fmt.Print("Email (optional): ")
	if !sc.Scan() {
		return false
	}
	email := strings.TrimSpace(sc.Text())

	if err := mgr.Register(username, password, email); err != nil {
		fmt.Printf("Registration failed: %s\n", userMessage(err))
		return false
	}

	// Chain an automatic login so the user does not retype credentials.
	if err := mgr.Login(username, password); err != nil {
		fmt.Printf("Account created, but automatic login failed: %s\n", userMessage(err))
		fmt.Println("Please log in manually.")
		return false
	}
	fmt.Printf("Welcome, %s!\n", username)
	return true
}

// ---------------------------------------------------------------------------
// Dashboard view
// ---------------------------------------------------------------------------

// dashboardLoop is the authenticated view. Returns true to quit the program,
// false after a logout.
func dashboardLoop(sc *bufio.Scanner, mgr *catalog.Manager) bool {
	fmt.Printf("\nLogged in as %s. Commands: list, add book, locations, logout, exit\n", mgr.Username())

	for {
		fmt.Print("\n> ")
		if !sc.Scan() {
			return true
		}
		switch strings.TrimSpace(sc.Text()) {
		case "list":
			handleListBooks(mgr)
		case "add book":
			if handleAddBook(sc, mgr) {
				// A successful add triggers a fresh fetch.
				handleListBooks(mgr)
			}
		case "locations":
			handleLocations(sc, mgr)
		case "logout":
			if err := mgr.Logout(); err != nil {
				fmt.Printf("Error logging out: %v\n", err)
				continue
			}
			fmt.Println("Logged out.")
			return false
		case "exit":
			fmt.Println("Goodbye!")
			return true
		case "":
		default:
			fmt.Println("Unknown command. Type list, add book, locations, logout or exit.")
		}
	}
}

func handleListBooks(mgr *catalog.Manager) {
	fmt.Println("Loading books...")
	books, err := mgr.Books()
	if err != nil {
		fmt.Printf("Error loading books: %s\n", userMessage(err))
		return
	}
	if len(books) == 0 {
		fmt.Println("No books found. Add some!")
		return
	}

	fmt.Printf("%-5s %-30s %-25s %-15s %-25s\n", "ID", "Title", "Authors", "Genre", "Location")
	fmt.Println(strings.Repeat("-", 105))

	for _, b := range books {
		fmt.Printf("%-5d %-30s %-25s %-15s %-25s\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Authors, 25),
			truncateString(orNA(b.Genre), 15),
			truncateString(bookLocation(b), 25))

		cover := b.CoverURL
		if cover == "" {
			cover = catalog.CoverPlaceholderURL
		}
		fmt.Printf("      cover: %s\n", cover)
		fmt.Printf("      find:  %s\n", catalog.SearchURL(b.Title, b.Authors))
	}
}

func bookLocation(b catalog.Book) string {
	if b.ShelfName == "" && b.SectionName == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s - %s", orNA(b.ShelfName), orNA(b.SectionName))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// ---------------------------------------------------------------------------
// Add-book view
// ---------------------------------------------------------------------------

// handleAddBook walks the add-book form. Returns true when a book was added.
func handleAddBook(sc *bufio.Scanner, mgr *catalog.Manager) bool {
	var form catalog.BookForm

	fmt.Print("ISBN (optional): ")
	if !sc.Scan() {
		return false
	}
	form.ISBN = strings.TrimSpace(sc.Text())

	if form.ISBN != "" {
		fmt.Print("Search this ISBN for metadata? [y/N]: ")
		if !sc.Scan() {
			return false
		}
		if ans := strings.ToLower(strings.TrimSpace(sc.Text())); ans == "y" || ans == "yes" {
			searchISBN(&form, mgr)
		}
	}

	// A failed submit keeps the form populated: the prompts are re-entered
	// seeded with the retained values until the save succeeds or the user
	// gives up.
	for {
		promptBookFields(sc, &form)
		chooseLocation(sc, mgr, &form)

		book, err := form.Build()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Println("Saving book...")
			if err := mgr.AddBook(book); err == nil {
				form.Reset()
				fmt.Printf("Added '%s'.\n", book.Title)
				return true
			}
			fmt.Printf("Error adding book: %s\n", userMessage(err))
		}

		fmt.Print("Edit the form and try again? [Y/n]: ")
		if !sc.Scan() {
			return false
		}
		if ans := strings.ToLower(strings.TrimSpace(sc.Text())); ans == "n" || ans == "no" {
			return false
		}
	}
}

func promptBookFields(sc *bufio.Scanner, form *catalog.BookForm) {
	form.Title = promptDefault(sc, "Title", form.Title)
	form.Authors = promptDefault(sc, "Authors", form.Authors)
	form.Genre = promptDefault(sc, "Genre", form.Genre)
	form.Publisher = promptDefault(sc, "Publisher", form.Publisher)
	form.PubYear = promptDefault(sc, "Publication year", form.PubYear)
	form.PageCount = promptDefault(sc, "Page count", form.PageCount)
	form.Language = promptDefault(sc, "Language", form.Language)
	form.CoverURL = promptDefault(sc, "Cover URL", form.CoverURL)
	form.Notes = promptDefault(sc, "Notes", form.Notes)
}

// searchISBN clears the descriptive fields and fills them from the lookup.
// A miss leaves the form in its cleared state.
func searchISBN(form *catalog.BookForm, mgr *catalog.Manager) {
	form.ClearDescriptive()
	fmt.Println("Searching ISBN...")
	found, err := mgr.LookupISBN(form.ISBN)
	if err != nil {
		form.ApplyLookup(nil)
		fmt.Printf("ISBN lookup failed: %s. Fill the fields manually.\n", userMessage(err))
		return
	}
	form.ApplyLookup(found)
	fmt.Println("Book data pre-filled from the ISBN lookup.")
}

// chooseLocation offers the shelf list and, once a shelf is picked, that
// shelf's sections. Skipping either leaves the reference null on submit.
func chooseLocation(sc *bufio.Scanner, mgr *catalog.Manager, form *catalog.BookForm) {
	shelves, err := mgr.Shelves()
	if err != nil {
		fmt.Printf("Error loading shelves: %s\n", userMessage(err))
		return
	}
	if len(shelves) == 0 {
		fmt.Println("No shelves yet. Use 'locations' to create one.")
		return
	}

	fmt.Println("Shelves:")
	for _, s := range shelves {
		fmt.Printf("  %d) %s\n", s.ID, s.Name)
	}
	fmt.Print("Shelf ID (blank for none): ")
	if !sc.Scan() {
		return
	}
	raw := strings.TrimSpace(sc.Text())
	if raw == "" {
		return
	}
	shelfID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("Invalid shelf ID: %s\n", raw)
		return
	}
	form.SelectShelf(shelfID)

	sections, err := mgr.Sections(shelfID)
	if err != nil {
		fmt.Printf("Error loading sections: %s\n", userMessage(err))
		return
	}
	if len(sections) == 0 {
		fmt.Println("No sections on this shelf.")
		return
	}

	fmt.Println("Sections:")
	for _, p := range sections {
		fmt.Printf("  %d) %s\n", p.ID, p.Name)
	}
	fmt.Print("Section ID (blank for none): ")
	if !sc.Scan() {
		return
	}
	raw = strings.TrimSpace(sc.Text())
	if raw == "" {
		return
	}
	sectionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("Invalid section ID: %s\n", raw)
		return
	}
	form.SelectSection(sectionID)
}

// ---------------------------------------------------------------------------
// Locations view
// ---------------------------------------------------------------------------

func handleLocations(sc *bufio.Scanner, mgr *catalog.Manager) {
	showLocations(mgr)
	fmt.Println("\nCommands: add shelf, add section, refresh, back")

	for {
		fmt.Print("\nlocations> ")
		if !sc.Scan() {
			return
		}
		switch strings.TrimSpace(sc.Text()) {
		case "add shelf":
			handleAddShelf(sc, mgr)
		case "add section":
			handleAddSection(sc, mgr)
		case "refresh":
			showLocations(mgr)
		case "back":
			return
		case "":
		default:
			fmt.Println("Unknown command. Type add shelf, add section, refresh or back.")
		}
	}
}

// showLocations fetches and renders both lists. The fetches are independent
// so one failure still shows the other list.
func showLocations(mgr *catalog.Manager) {
	shelves, err := mgr.Shelves()
	if err != nil {
		fmt.Printf("Error loading shelves: %s\n", userMessage(err))
	} else if len(shelves) == 0 {
		fmt.Println("No shelves yet.")
	} else {
		fmt.Printf("%-5s %-30s\n", "ID", "Shelf")
		fmt.Println(strings.Repeat("-", 36))
		for _, s := range shelves {
			fmt.Printf("%-5d %-30s\n", s.ID, truncateString(s.Name, 30))
		}
	}

	sections, err := mgr.AllSections()
	if err != nil {
		fmt.Printf("Error loading sections: %s\n", userMessage(err))
		return
	}
	if len(sections) == 0 {
		fmt.Println("No sections yet.")
		return
	}
	fmt.Printf("\n%-5s %-30s %-30s\n", "ID", "Section", "Shelf")
	fmt.Println(strings.Repeat("-", 67))
	for _, p := range sections {
		fmt.Printf("%-5d %-30s %-30s\n", p.ID, truncateString(p.Name, 30), truncateString(orNA(p.ShelfName), 30))
	}
}

func handleAddShelf(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Print("Shelf name: ")
	if !sc.Scan() {
		return
	}
	name := strings.TrimSpace(sc.Text())
	if name == "" {
		fmt.Println("Error: shelf name is required")
		return
	}

	shelf, err := mgr.CreateShelf(name)
	if err != nil {
		fmt.Printf("Error creating shelf: %s\n", userMessage(err))
		return
	}
	fmt.Printf("Created shelf '%s' (ID %d)\n", shelf.Name, shelf.ID)
	showLocations(mgr)
}

func handleAddSection(sc *bufio.Scanner, mgr *catalog.Manager) {
	shelves, err := mgr.Shelves()
	if err != nil {
		fmt.Printf("Error loading shelves: %s\n", userMessage(err))
		return
	}
	if len(shelves) == 0 {
		fmt.Println("No shelves yet. Create a shelf first.")
		return
	}
	fmt.Println("Shelves:")
	for _, s := range shelves {
		fmt.Printf("  %d) %s\n", s.ID, s.Name)
	}

	fmt.Print("Parent shelf ID: ")
	if !sc.Scan() {
		return
	}
	raw := strings.TrimSpace(sc.Text())
	shelfID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("Invalid shelf ID: %s\n", raw)
		return
	}

	fmt.Print("Section name: ")
	if !sc.Scan() {
		return
	}
	name := strings.TrimSpace(sc.Text())
	if name == "" {
		fmt.Println("Error: section name is required")
		return
	}

	section, err := mgr.CreateSection(shelfID, name)
	if err != nil {
		fmt.Printf("Error creating section: %s\n", userMessage(err))
		return
	}
	fmt.Printf("Created section '%s' (ID %d)\n", section.Name, section.ID)
	showLocations(mgr)
}

// ---------------------------------------------------------------------------
// Prompt helpers
// ---------------------------------------------------------------------------

// promptDefault shows the current value (from an ISBN lookup) and keeps it
// when the user just presses Enter.
func promptDefault(sc *bufio.Scanner, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !sc.Scan() {
		return current
	}
	if v := strings.TrimSpace(sc.Text()); v != "" {
		return v
	}
	return current
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
