package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"bookclub/internal/apperr"
	"bookclub/internal/database"
	"bookclub/internal/models"
	"bookclub/internal/repositories"
	"bookclub/internal/services"
	"bookclub/internal/validation"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// bookRecord is one entry of an import file.
type bookRecord struct {
	Title          string `json:"title" validate:"required,max=255"`
	Author         string `json:"author" validate:"required,max=255"`
	Pages          int    `json:"pages" validate:"required,min=1"`
	Summary        string `json:"summary"`
	PublishedMonth string `json:"publishedMonth" validate:"omitempty,oneof=January February March April May June July August September October November December"`
	PublishedYear  int    `json:"publishedYear" validate:"omitempty,min=1500,max=2100"`
}

func newImportBooksCommand() *cobra.Command {
	var dryRun bool
	command := &cobra.Command{
		Use:   "import-books FILE",
		Short: "Import books from a JSON array file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			books, err := decodeBooks(f)
			if err != nil {
				return err
			}

			var repo repositories.BookRepository
			if dryRun {
				repo = repositories.NewMemoryBookRepository()
			} else {
				db, err := database.Open(databaseOptions(cfg))
				if err != nil {
					return err
				}
				defer database.Close(db)
				repo = repositories.NewGORMBookRepository(db)
			}
			return importBooks(cmd.Context(), cmd.OutOrStdout(), services.NewBookService(repo), books, dryRun)
		},
	}
	command.Flags().BoolVar(&dryRun, "dry-run", false, "validate and import into memory without touching the database")
	return command
}

// decodeBooks reads a JSON array of books and validates every entry. All
// invalid entries are reported together.
func decodeBooks(r io.Reader) ([]models.Book, error) {
	var records []bookRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid import file: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("import file contains no books")
	}

	var problems []error
	books := make([]models.Book, 0, len(records))
	for i, rec := range records {
		if err := validation.Struct(rec); err != nil {
			var ae *apperr.Error
			if errors.As(err, &ae) && len(ae.Fields) > 0 {
				problems = append(problems, fmt.Errorf("book %d (%q): %v", i, rec.Title, ae.Fields))
			} else {
				problems = append(problems, fmt.Errorf("book %d (%q): %w", i, rec.Title, err))
			}
			continue
		}
		books = append(books, models.Book{
			Title:          rec.Title,
			Author:         rec.Author,
			Pages:          rec.Pages,
			Summary:        rec.Summary,
			PublishedMonth: rec.PublishedMonth,
			PublishedYear:  rec.PublishedYear,
		})
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return books, nil
}

func importBooks(ctx context.Context, out io.Writer, svc *services.BookService, books []models.Book, dryRun bool) error {
	n, err := svc.ImportBooks(ctx, books)
	if err != nil {
		return fmt.Errorf("imported %d of %d books: %w", n, len(books), err)
	}

	mode := "imported"
	if dryRun {
		mode = "validated (dry run)"
	}
	fmt.Fprintf(out, "%d books %s\n", n, mode)
	for _, b := range books {
		fmt.Fprintf(out, "%-36s  %-40s  %s\n", b.ID, truncate(b.Title, 40), b.Author)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
