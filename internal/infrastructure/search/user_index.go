package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
)

const (
	DefaultSearchSize = 10
	MaxSearchSize     = 50
	requestTimeout    = 3 * time.Second
)

// userMapping keeps status, role and email exact-match while names stay analyzed.
const userMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "status":       {"type": "keyword"},
      "role":         {"type": "keyword"},
      "email":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "first_name":   {"type": "text"},
      "last_name":    {"type": "text"},
      "balance":      {"type": "long"},
      "address":      {"type": "text"},
      "phone_number": {"type": "keyword"},
      "created_at":   {"type": "date"},
      "updated_at":   {"type": "date"}
    }
  }
}`

// userDocument is what gets indexed. It never carries the password hash.
type userDocument struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Balance     int      `json:"balance"`
	Address     []string `json:"address"`
	PhoneNumber string   `json:"phone_number"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toDocument(u *entity.User) userDocument {
	return userDocument{
		ID:          u.ID,
		Status:      string(u.Status),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        string(u.Role),
		Balance:     u.Balance,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (d userDocument) toEntity(id string) *entity.User {
	if d.ID != "" {
		id = d.ID
	}
	address := d.Address
	if address == nil {
		address = []string{}
	}
	u := &entity.User{
		ID:          id,
		Status:      entity.Status(d.Status),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Role:        entity.Role(d.Role),
		Balance:     d.Balance,
		Address:     address,
		PhoneNumber: d.PhoneNumber,
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.UpdatedAt)
	return u
}

// UserIndex stores a searchable projection of users in Elasticsearch.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(c),
		x.es.Indices.Create.WithBody(strings.NewReader(userMapping)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

// Index upserts the user document keyed by user id.
func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(toDocument(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %s: %s", u.ID, res.Status())
	}
	return nil
}

// ClampSize keeps size within 1..MaxSearchSize. Unset or non-positive
// sizes use the default.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSearchSize
	case size > MaxSearchSize:
		return MaxSearchSize
	}
	return size
}

func searchBody(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"email^2", "first_name", "last_name"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": string(entity.StatusActive)},
				},
			},
		},
		"size": size,
	}
}

// Search runs a multi_match over email and names, restricted to active users.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]*entity.User, error) {
	b, err := json.Marshal(searchBody(q, ClampSize(size)))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string       `json:"_id"`
				Source userDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		u := h.Source.toEntity(h.ID)
		if !u.IsActive() {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}
