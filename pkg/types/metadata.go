package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InventoryMetadata is the structured metadata document attached to every
// inventory item. It is validated before persistence and stored as JSONB.
type InventoryMetadata struct {
	Year                 int      `json:"year" validate:"required,gte=1888"`
	Actors               []string `json:"actors" validate:"required,min=1,dive,min=1"`
	IMDBRating           float64  `json:"imdb_rating" validate:"gte=0,lte=10"`
	RottenTomatoesRating int      `json:"rotten_tomatoes_rating" validate:"gte=0,lte=100"`
}

// Value implements driver.Valuer; the document is serialized to JSON.
func (m InventoryMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB columns.
func (m *InventoryMetadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = InventoryMetadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("inventory metadata: cannot scan %T", src)
	}
}
