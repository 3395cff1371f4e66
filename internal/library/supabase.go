package library

import (
	"context"
	"fmt"
	"sort"

	"github.com/sparringlab/sparring/internal/debate"
	"github.com/supabase-community/supabase-go"
)

const table = "saved_debates"

// SupabaseStore implements Store against the saved_debates table.
type SupabaseStore struct {
	client *supabase.Client
	cache  Cache
}

// NewSupabaseStore creates a store for the given project. The cache may
// not be nil; use a memory cache when nothing better is configured.
func NewSupabaseStore(url, anonKey string, cache Cache) (*SupabaseStore, error) {
	if url == "" || anonKey == "" {
		return nil, ErrInvalidConfig
	}
	if cache == nil {
		return nil, ErrInvalidConfig
	}
	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("library: creating supabase client: %w", err)
	}
	return &SupabaseStore{client: client, cache: cache}, nil
}

// Save implements Store.
func (s *SupabaseStore) Save(ctx context.Context, userID string, entry debate.Entry) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	r, err := rowFromEntry(userID, entry)
	if err != nil {
		return err
	}
	if _, _, err := s.client.From(table).Insert(r, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("library: saving entry: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// List implements Store.
func (s *SupabaseStore) List(ctx context.Context, userID string) ([]debate.Entry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if cached, ok := s.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	var rows []row
	_, err := s.client.From(table).
		Select("*", "", false).
		Eq("user_id", userID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("library: listing entries: %w", err)
	}

	entries := make([]debate.Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	s.cache.Set(ctx, userID, entries)
	return entries, nil
}

// Delete implements Store.
func (s *SupabaseStore) Delete(ctx context.Context, userID, entryID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	_, _, err := s.client.From(table).
		Delete("", "").
		Eq("id", entryID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("library: deleting entry: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}
