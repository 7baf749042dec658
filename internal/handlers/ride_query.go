package handlers

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/ride-admin/internal/models"
)

// Ordering fields accepted on the ride list. A leading "-" flips the
// direction, same convention the mobile clients already use.
const (
	orderPickupTime = "pickup_time"
	orderDistance   = "distance"
)

// ListQuery is built once from the request's query string and then
// translated into a single GORM query. It is never mutated after
// ParseListQuery returns.
type ListQuery struct {
	Status     string
	RiderEmail string

	OrderField string // "", orderPickupTime or orderDistance
	Descending bool

	// Reference point for distance ordering. Only meaningful when
	// OrderField == orderDistance.
	Lat float64
	Lng float64
}

// ParseListQuery validates the raw query parameters. Distance ordering
// is only kept when both lat and lng parse as floats; otherwise it is
// dropped without an error and the list comes back in default order.
func ParseListQuery(params map[string]string) ListQuery {
	q := ListQuery{
		Status:     strings.TrimSpace(params["status"]),
		RiderEmail: strings.TrimSpace(params["rider_email"]),
	}

	ordering := strings.TrimSpace(params["ordering"])
	field := strings.TrimPrefix(ordering, "-")
	desc := strings.HasPrefix(ordering, "-")

	switch field {
	case orderPickupTime:
		q.OrderField = orderPickupTime
		q.Descending = desc
	case orderDistance:
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(params["lat"]), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(params["lng"]), 64)
		if errLat != nil || errLng != nil {
			break // missing or malformed reference point, skip ordering
		}
		q.OrderField = orderDistance
		q.Descending = desc
		q.Lat = lat
		q.Lng = lng
	}

	return q
}

// applyFilters adds the status and rider-email predicates. Shared
// between the page query and the count query so both see the same set.
func (q ListQuery) applyFilters(tx *gorm.DB) *gorm.DB {
	if q.Status != "" {
		tx = tx.Where("LOWER(rides.status) = LOWER(?)", q.Status)
	}
	if q.RiderEmail != "" {
		tx = tx.
			Joins("JOIN users AS riders ON riders.id = rides.rider_id").
			Where("LOWER(riders.email) LIKE ?", "%"+strings.ToLower(q.RiderEmail)+"%")
	}
	return tx
}

func (q ListQuery) direction() string {
	if q.Descending {
		return "DESC"
	}
	return "ASC"
}

// Apply builds the full ride query: base scan with rider and driver
// preloaded, filters, then ordering.
func (q ListQuery) Apply(db *gorm.DB) *gorm.DB {
	tx := db.Model(&models.Ride{}).
		Preload("Rider").
		Preload("Driver")

	tx = q.applyFilters(tx)

	switch q.OrderField {
	case orderPickupTime:
		tx = tx.Order("rides.pickup_time " + q.direction())
	case orderDistance:
		tx = tx.Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "sqrt(power(rides.pickup_latitude - ?, 2) + power(rides.pickup_longitude - ?, 2)) " + q.direction(),
				Vars:               []interface{}{q.Lat, q.Lng},
				WithoutParentheses: true,
			},
		})
	}

	return tx
}

// clampPagination normalizes page/page_size: page starts at 1,
// page_size defaults to 10 and is capped at 100.
func clampPagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
