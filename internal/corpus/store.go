package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/Corpus-Search-Platform/pkg/postgres"
)

// Store persists corpus documents in PostgreSQL so the service can rebuild
// its index at startup without shipping text files.
type Store struct {
	client *postgres.Client
}

// NewStore creates a Store and ensures the documents table exists.
func NewStore(ctx context.Context, client *postgres.Client) (*Store, error) {
	s := &Store{client: client}
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS documents (
			doc_id     TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.client.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a document.
func (s *Store) Upsert(ctx context.Context, docID, body string) error {
	const query = `
		INSERT INTO documents (doc_id, body)
		VALUES ($1, $2)
		ON CONFLICT (doc_id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
	if _, err := s.client.DB.ExecContext(ctx, query, docID, body); err != nil {
		return fmt.Errorf("upserting document %s: %w", docID, err)
	}
	return nil
}

// UpsertAll writes a whole corpus in one transaction.
func (s *Store) UpsertAll(ctx context.Context, docs Corpus) error {
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO documents (doc_id, body)
			VALUES ($1, $2)
			ON CONFLICT (doc_id)
			DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
		for _, docID := range docs.DocIDs() {
			if _, err := tx.ExecContext(ctx, query, docID, docs[docID]); err != nil {
				return fmt.Errorf("upserting document %s: %w", docID, err)
			}
		}
		return nil
	})
}

// LoadAll reads every stored document into a Corpus.
func (s *Store) LoadAll(ctx context.Context) (Corpus, error) {
	rows, err := s.client.DB.QueryContext(ctx, `SELECT doc_id, body FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make(Corpus)
	for rows.Next() {
		var docID, body string
		if err := rows.Scan(&docID, &body); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs[docID] = body
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.client.DB.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
