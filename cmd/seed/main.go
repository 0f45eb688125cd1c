package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"bookcatalog/internal/app"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
)

func main() {
	count := flag.Int("count", 50, "Number of books to create")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	repo, closeRepo, err := app.OpenRepository(ctx, cfg, newLogger())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeRepo()

	service := book.NewService(repo, nil)

	log.Printf("Generating %d books...", *count)
	created, skipped := 0, 0
	for i := 0; i < *count; i++ {
		_, err := service.Create(ctx, sampleBook(i))
		switch {
		case errors.Is(err, book.ErrDuplicateISBN):
			skipped++
		case err != nil:
			log.Printf("Failed to insert book %d: %v", i+1, err)
			closeRepo()
			os.Exit(1)
		default:
			created++
		}
	}

	log.Printf("Inserted %d books, skipped %d existing", created, skipped)

	books, err := service.List(ctx)
	if err == nil {
		log.Printf("Total books in database: %d", len(books))
	}
}

// sampleBook returns a valid book whose ISBN is stable for index i, so
// re-running the seeder does not duplicate rows.
func sampleBook(i int) book.CreateInput {
	year := 1950 + rand.Intn(75)
	return book.CreateInput{
		Title:         fmt.Sprintf("Book Title %d - %s", i+1, getRandomWord()),
		Author:        fmt.Sprintf("%s %s", getRandomWord(), getRandomWord()),
		PublishedDate: fmt.Sprintf("%d-%02d-%02d", year, 1+rand.Intn(12), 1+rand.Intn(28)),
		ISBN:          fmt.Sprintf("978-%08d", i+1),
	}
}

func getRandomWord() string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rand.Intn(len(words))]
}
