package api

import (
	"encoding/json"
	"time"
)

// --- API Response Envelope ---

type apiResponse[T any] struct {
	Data  T       `json:"data"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSONMap handles JSONB fields that asyncpg may return as strings.
type JSONMap map[string]any

func (j *JSONMap) UnmarshalJSON(data []byte) error {
	// Try as object first
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		*j = m
		return nil
	}
	// Try as string containing JSON
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "null" {
			*j = make(map[string]any)
			return nil
		}
		return json.Unmarshal([]byte(s), (*map[string]any)(j))
	}
	*j = make(map[string]any)
	return nil
}

// --- Entity ---

// Entity is the tagged record a picker session can write back to.
type Entity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Status    string    `json:"status,omitempty"`
	Tags      []string  `json:"tags"`
	Metadata  JSONMap   `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateEntityInput defines the fields for updating an existing entity.
type UpdateEntityInput struct {
	Name     *string        `json:"name,omitempty"`
	Tags     *[]string      `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// --- Taxonomy ---

// TaxonomyEntry is one row of a taxonomy kind such as tags or scopes.
type TaxonomyEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsBuiltin   bool      `json:"is_builtin"`
	IsActive    bool      `json:"is_active"`
	Metadata    JSONMap   `json:"metadata,omitempty"`
	UsageCount  int       `json:"usage_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaxonomyQuery narrows a taxonomy listing.
type TaxonomyQuery struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// --- API Key ---

// LoginInput defines the credentials for logging in.
type LoginInput struct {
	Username string `json:"username"`
}

// LoginResponse contains the session information after successful login.
type LoginResponse struct {
	APIKey   string `json:"api_key"`
	EntityID string `json:"entity_id"`
	Username string `json:"username"`
}

// --- Query ---

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string
