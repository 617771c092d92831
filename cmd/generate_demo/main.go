// Command generate_demo creates a demo catalog with sample data from public
// domain books and runs a few searches against it.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/sdallo/bookshelf/internal/books"
	"github.com/sdallo/bookshelf/internal/config"
	"github.com/sdallo/bookshelf/internal/database"
	"github.com/sdallo/bookshelf/internal/entities"
	"github.com/sdallo/bookshelf/internal/query"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo catalog at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	cfg := config.NewConfig()

	pool, err := database.NewStorePool(*dbPath, cfg.Pool.MinSize)
	if err != nil {
		log.Fatalf("Failed to create store pool: %v", err)
	}

	manager := books.NewManager()
	if err := manager.AddPool("demo", pool); err != nil {
		log.Fatalf("Failed to register pool: %v", err)
	}
	if err := manager.SetCurrent("demo"); err != nil {
		log.Fatalf("Failed to select pool: %v", err)
	}

	lease, err := manager.Current()
	if err != nil {
		log.Fatalf("Failed to lease a store: %v", err)
	}
	defer lease.Release()

	store := lease.Value()
	for _, book := range publicDomainBooks() {
		saved, err := store.AddBook(&book)
		if err != nil {
			log.Printf("Failed to save book %s: %v", book.Title, err)
			continue
		}
		log.Printf("Saved: %s by %v (id %d)", saved.Title, saved.AuthorNames(), saved.ID)
	}

	search := query.NewBuilder("").
		Sort(query.SortDescriptor{Column: "title", Order: query.Asc}).
		Take(cfg.Search.DefaultPageSize).
		Finalize()
	res, err := store.FetchBooks(search)
	if err != nil {
		log.Fatalf("Failed to search demo catalog: %v", err)
	}
	log.Printf("Catalog holds %d books:", res.Total)
	for _, b := range res.Items {
		log.Printf("  %s (%s)", b.Title, b.Lang)
	}

	tags, err := store.GetTags("")
	if err != nil {
		log.Fatalf("Failed to list tags: %v", err)
	}
	log.Printf("Tags: %v", tags.Items)

	log.Println("Demo catalog generated successfully!")
}

func date(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

func publicDomainBooks() []entities.Book {
	return []entities.Book{
		{
			Title:       "Faust",
			SubTitle:    "Der Tragödie erster Teil",
			ISBN:        "9783150000014",
			Lang:        "DE",
			Description: "Der Gelehrte Faust schließt einen Pakt mit Mephistopheles.",
			Publisher:   "Reclam",
			PublishDate: date(1808, 1, 1),
			Authors:     []entities.Author{{Name: "Johann Wolfgang von Goethe"}},
			Tags:        []entities.Tag{{Name: "classic"}, {Name: "drama"}},
		},
		{
			Title:       "Wilhelm Tell",
			ISBN:        "9783150000125",
			Lang:        "DE",
			Description: "Schauspiel um den legendären Schweizer Freiheitskämpfer.",
			Publisher:   "Reclam",
			PublishDate: date(1804, 3, 17),
			Authors:     []entities.Author{{Name: "Friedrich Schiller"}},
			Tags:        []entities.Tag{{Name: "classic"}, {Name: "drama"}},
		},
		{
			Title:       "War and Peace",
			ISBN:        "9780199232765",
			Lang:        "EN",
			Description: "Napoleonic wars seen through five aristocratic families.",
			Publisher:   "Oxford University Press",
			PublishDate: date(1869, 1, 1),
			Authors:     []entities.Author{{Name: "Leo Tolstoy"}},
			Tags:        []entities.Tag{{Name: "classic"}, {Name: "fiction"}},
		},
		{
			Title:       "The Adventures of Sherlock Holmes",
			ISBN:        "9780198788816",
			Lang:        "EN",
			Description: "Twelve detective stories featuring Sherlock Holmes.",
			Publisher:   "Oxford University Press",
			PublishDate: date(1892, 10, 14),
			Authors:     []entities.Author{{Name: "Arthur Conan Doyle"}},
			Tags:        []entities.Tag{{Name: "detective"}, {Name: "fiction"}},
		},
	}
}
