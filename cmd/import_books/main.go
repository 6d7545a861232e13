// Command import_books bulk-adds books to the catalog from a text file of
// ISBNs (one per line, # starts a comment). Each ISBN is resolved through
// the metadata lookup and added under the session saved by the interactive
// client, so log in there first.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"book-catalog/catalog"

	"github.com/spf13/viper"
)

func main() {
	viper.SetDefault("api_url", "http://127.0.0.1:5000")
	viper.SetDefault("session_path", "session.db")
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("session_path", filepath.Join(home, ".bookcatalog", "session.db"))
	}
	viper.SetEnvPrefix("BOOKCATALOG")
	viper.AutomaticEnv()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: import_books <isbn-file>")
		os.Exit(1)
	}

	mgr, err := catalog.NewManager(viper.GetString("api_url"), viper.GetString("session_path"), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	if !mgr.LoggedIn() {
		fmt.Fprintln(os.Stderr, "No session found. Log in with the interactive client first.")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ISBN file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Printf("Importing books for %s...\n", mgr.Username())

	successCount := 0
	errorCount := 0
	var added []catalog.Book

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		isbn := strings.TrimSpace(scanner.Text())
		if isbn == "" || strings.HasPrefix(isbn, "#") {
			continue
		}

		fmt.Printf("Importing ISBN %s... ", isbn)

		found, err := mgr.LookupISBN(isbn)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}

		book := *found
		book.ISBN = isbn
		if err := mgr.AddBook(book); err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}

		fmt.Printf("SUCCESS (%s)\n", book.Title)
		added = append(added, book)
		successCount++
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ISBN file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if len(added) > 0 {
		fmt.Println("\nImported books:")
		fmt.Printf("%-15s %-50s %-30s\n", "ISBN", "Title", "Authors")
		fmt.Println(strings.Repeat("-", 97))
		for _, b := range added {
			fmt.Printf("%-15s %-50s %-30s\n", b.ISBN, truncateString(b.Title, 50), truncateString(b.Authors, 30))
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
