package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"bookcatalog/internal/catalog"
)

// Service loads (isbn, title, author, year) records into the catalog.
//
// Each record is its own checkpoint: the author get-or-create and the book
// insert commit independently, so a failure aborts the run but keeps every
// prior record. Author deduplication is delegated to the store's
// get-or-create, which is atomic even under concurrent runs.
type Service struct {
	catalogRepo catalog.Repository
	runsRepo    Repository
}

func NewService(catalogRepo catalog.Repository, runsRepo Repository) *Service {
	return &Service{catalogRepo: catalogRepo, runsRepo: runsRepo}
}

type record struct {
	isbn   string
	title  string
	author string
	year   int
}

// ImportFile runs the import against a CSV file on disk.
func (s *Service) ImportFile(ctx context.Context, path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// Import reads CSV records from src and populates the catalog. The first
// record is a header and is skipped. The returned Run carries the counters
// even when the run fails partway.
func (s *Service) Import(ctx context.Context, src io.Reader) (run *Run, err error) {
	run = &Run{
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	runID, createErr := s.runsRepo.CreateRun(ctx, run)
	if createErr != nil {
		return nil, createErr
	}
	run.ID = runID

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
		} else {
			run.Status = StatusCompleted
		}
		if updateErr := s.runsRepo.UpdateRun(ctx, run); updateErr != nil {
			log.Printf("import run=%s failed to record result: %v", run.ID, updateErr)
		}
	}()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = 4

	if _, headerErr := reader.Read(); headerErr != nil {
		if headerErr == io.EOF {
			return run, fmt.Errorf("input is empty, expected a header record")
		}
		return run, fmt.Errorf("read header: %w", headerErr)
	}

	for {
		fields, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// Malformed record (wrong field count, bad quoting). Abort the
			// run; prior checkpoints stay committed.
			return run, fmt.Errorf("read record %d: %w", run.RowsRead+1, readErr)
		}
		run.RowsRead++

		rec, parseErr := parseRecord(fields)
		if parseErr != nil {
			return run, fmt.Errorf("record %d: %w", run.RowsRead, parseErr)
		}

		if importErr := s.importRecord(ctx, run, rec); importErr != nil {
			return run, fmt.Errorf("record %d (isbn %s): %w", run.RowsRead, rec.isbn, importErr)
		}
	}

	return run, nil
}

// importRecord is the resolve_author -> insert_book stage for one record.
func (s *Service) importRecord(ctx context.Context, run *Run, rec record) error {
	authorID, created, err := s.catalogRepo.GetOrCreateAuthor(ctx, rec.author)
	if err != nil {
		return err
	}
	if created {
		run.AuthorsCreated++
	}

	book := &catalog.Book{
		ISBN:            rec.isbn,
		Title:           rec.title,
		PublicationYear: rec.year,
		AuthorID:        authorID,
	}
	if err := s.catalogRepo.InsertBook(ctx, book); err != nil {
		return err
	}
	run.BooksCreated++
	return nil
}

func parseRecord(fields []string) (record, error) {
	year, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return record{}, fmt.Errorf("invalid publication year %q", fields[3])
	}
	return record{
		isbn:   fields[0],
		title:  fields[1],
		author: fields[2],
		year:   year,
	}, nil
}
