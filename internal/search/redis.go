package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/ecomstore/go-storefront/internal/redisx"
)

// RedisMirror keeps one JSON document per product plus a membership set for
// enumeration. Corrupt or missing documents are treated as absent, never
// fatal.
type RedisMirror struct {
	Client *redis.Client
}

func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{Client: client}
}

func (m *RedisMirror) Upsert(ctx context.Context, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	pipe := m.Client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(redisx.KeyMirrorProduct, doc.ID), b, 0)
	pipe.SAdd(ctx, redisx.KeyMirrorIndex, doc.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (m *RedisMirror) DeleteByID(ctx context.Context, id string) error {
	pipe := m.Client.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(redisx.KeyMirrorProduct, id))
	pipe.SRem(ctx, redisx.KeyMirrorIndex, id)
	_, err := pipe.Exec(ctx)
	return err
}

func (m *RedisMirror) Search(ctx context.Context, f Filter, page, size int) (Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	ids, err := m.Client.SMembers(ctx, redisx.KeyMirrorIndex).Result()
	if err != nil {
		return Page{}, fmt.Errorf("list mirror index: %w", err)
	}

	var matched []Document
	for _, id := range ids {
		raw, err := m.Client.Get(ctx, fmt.Sprintf(redisx.KeyMirrorProduct, id)).Result()
		if err != nil {
			// index entry without a document: treat as absent
			continue
		}
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			continue
		}
		if matches(doc, f) {
			matched = append(matched, doc)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{Items: matched[start:end], Page: page, Size: size, Total: total}, nil
}

func matches(doc Document, f Filter) bool {
	if doc.StockQuantity <= 0 {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(doc.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Category != "" && doc.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && doc.Price.Cmp(*f.MinPrice) < 0 {
		return false
	}
	if f.MaxPrice != nil && doc.Price.Cmp(*f.MaxPrice) > 0 {
		return false
	}
	return true
}
