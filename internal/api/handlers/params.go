package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

// UUIDVar разбирает UUID из переменной пути
func UUIDVar(r *http.Request, name string) (uuid.UUID, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("path variable %q is missing", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("path variable %q: %w", name, err)
	}
	return id, nil
}

// BookingListOptions разбирает query параметры списка бронирований
// Query params: status, includeInactive, upcoming, limit (все опциональны)
func BookingListOptions(query url.Values) (models.ListOptions, error) {
	var opts models.ListOptions

	if status := query.Get("status"); status != "" {
		opts.Status = &status
	}

	for name, dst := range map[string]*bool{
		"includeInactive": &opts.IncludeInactive,
		"upcoming":        &opts.Upcoming,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return models.ListOptions{}, fmt.Errorf("invalid %s value: %w", name, err)
		}
		*dst = value
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return models.ListOptions{}, fmt.Errorf("invalid limit value: %w", err)
		}
		opts.Limit = limit
	}

	return opts, nil
}
