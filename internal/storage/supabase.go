package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseRemote stores subscriber rows in a Supabase project over PostgREST.
type SupabaseRemote struct {
	client    *supabase.Client
	opTimeout time.Duration
}

func NewSupabaseRemote(url, key string, opTimeout time.Duration) (*SupabaseRemote, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating supabase client: %w", err)
	}
	return &SupabaseRemote{client: client, opTimeout: opTimeout}, nil
}

// execute runs one PostgREST request under the remote's per-operation
// timeout, which stays shorter than the store's own upsert race so a slow
// backend surfaces exactly one timeout.
func (r *SupabaseRemote) execute(ctx context.Context, fb *postgrest.FilterBuilder) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	data, _, err := fb.ExecuteWithContext(ctx)
	return data, err
}

func (r *SupabaseRemote) FetchSubscriber(ctx context.Context, id string) (*SubscriberRow, error) {
	data, err := r.execute(ctx, r.client.From("subscribers").
		Select("*", "", false).
		Eq("id", id).
		Single())
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error selecting subscriber: %w", err)
	}

	var row SubscriberRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("error decoding subscriber row: %w", err)
	}
	return &row, nil
}

// PGRST116 is PostgREST's code for a single-object request that matched zero
// rows.
func isNoRows(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PGRST116")
}

func (r *SupabaseRemote) UpsertSubscriber(ctx context.Context, row SubscriberRow) error {
	_, err := r.execute(ctx, r.client.From("subscribers").
		Upsert(row, "id", "", ""))
	if err != nil {
		return fmt.Errorf("error upserting subscriber: %w", err)
	}
	return nil
}

func (r *SupabaseRemote) InsertEvent(ctx context.Context, ev Event) error {
	_, err := r.execute(ctx, r.client.From("events").
		Insert(ev, true, "id", "", ""))
	if err != nil {
		return fmt.Errorf("error inserting event: %w", err)
	}
	return nil
}

func (r *SupabaseRemote) Close() error {
	return nil
}
