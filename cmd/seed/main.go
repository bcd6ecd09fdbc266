// Package main provides a tool to populate the book collection with the
// built-in sample catalog, or to print what the collection holds.
//
// It reads the same configuration as the server (flags, environment, .env):
//
//	go run ./cmd/seed
//	go run ./cmd/seed -store-driver sqlite -data-path ./data
//	go run ./cmd/seed -list
//
// Stop the server first when using the Badger driver; the database allows a
// single process.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/samber/do/v2"

	"github.com/booklyapp/bookly-server/internal/di"
	"github.com/booklyapp/bookly-server/internal/di/providers"
	"github.com/booklyapp/bookly-server/internal/domain"
	"github.com/booklyapp/bookly-server/internal/service"
)

var list = flag.Bool("list", false, "Print the collection instead of populating it")

func main() {
	injector := di.NewContainer()

	err := run(injector, os.Stdout)
	if shutdownErr := injector.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(injector do.Injector, out io.Writer) error {
	ctx := context.Background()

	// Config parsing registers its flags next to -list and parses them all.
	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	books := do.MustInvoke[*service.BookService](injector)

	if *list {
		all, err := books.ListBooks(ctx)
		if err != nil {
			return err
		}
		return printBooks(out, all)
	}

	result, err := books.Populate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s store at %s)\n", result.Message, storeHandle.Driver, storeHandle.Path)
	return nil
}

func printBooks(out io.Writer, books []domain.Book) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tGENRE\tMOODS")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Genre, b.MoodTags)
	}
	fmt.Fprintf(w, "\n%d books\n", len(books))
	return w.Flush()
}
