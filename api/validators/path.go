package validators

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/calibano/stockroom-backend/pkg/errors"
	"github.com/calibano/stockroom-backend/pkg/types"
)

const invalidDateMessage = "Invalid date format. Expected YYYY-MM-DD."

// ParseDatePath reads a calendar date path parameter. Anything that is not a
// strict YYYY-MM-DD value is rejected, including out-of-range days.
func ParseDatePath(r *http.Request, key string) (types.Date, error) {
	raw := chi.URLParam(r, key)
	date, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}, pkgerrors.New(pkgerrors.CodeValidation, invalidDateMessage).WithDetails(map[string]any{"field": key, "value": raw})
	}
	return date, nil
}

// ParseUUIDPath reads a UUID path parameter.
func ParseUUIDPath(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
