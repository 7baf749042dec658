package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/ride-admin/internal/models"
)

type RideHandler struct {
	DB *gorm.DB

	// Now is the clock for the "today's events" window. Tests pin it;
	// production leaves it nil and gets time.Now.
	Now func() time.Time
}

func NewRideHandler(db *gorm.DB) *RideHandler {
	return &RideHandler{DB: db}
}

func (h *RideHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// windowStart marks the lower bound of the 24-hour event window.
func windowStart(now time.Time) time.Time {
	return now.Add(-24 * time.Hour)
}

// groupEventsByRide distributes fetched events onto their rides.
// Every ride ends up with a non-nil slice, empty when nothing matched.
func groupEventsByRide(rides []models.Ride, events []models.RideEvent) {
	byRide := make(map[uint][]models.RideEvent, len(rides))
	for i := range rides {
		byRide[rides[i].ID] = []models.RideEvent{}
	}
	for _, e := range events {
		if _, ok := byRide[e.RideID]; ok {
			byRide[e.RideID] = append(byRide[e.RideID], e)
		}
	}
	for i := range rides {
		rides[i].TodaysEvents = byRide[rides[i].ID]
	}
}

// attachTodaysEvents loads the last-24h events for the page's rides in
// one query. The window is relative to the handler clock, never to the
// rides' own pickup times.
func (h *RideHandler) attachTodaysEvents(rides []models.Ride) error {
	if len(rides) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(rides))
	for i := range rides {
		ids = append(ids, rides[i].ID)
	}

	var events []models.RideEvent
	err := h.DB.
		Where("ride_id IN ? AND created_at >= ?", ids, windowStart(h.now())).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return err
	}

	groupEventsByRide(rides, events)
	return nil
}

// List handles GET /api/rides.
func (h *RideHandler) List(c *fiber.Ctx) error {
	q := ParseListQuery(c.Queries())
	page, pageSize := clampPagination(c.QueryInt("page", 1), c.QueryInt("page_size", 10))

	var total int64
	if err := q.applyFilters(h.DB.Model(&models.Ride{})).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to count rides",
		})
	}

	var rides []models.Ride
	if err := q.Apply(h.DB).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rides).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch rides",
		})
	}

	if err := h.attachTodaysEvents(rides); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch ride events",
		})
	}

	out := make([]RideJSON, 0, len(rides))
	for _, r := range rides {
		out = append(out, serializeRide(r))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
		"meta": fiber.Map{
			"page":        page,
			"page_size":   pageSize,
			"total_items": total,
			"total_pages": int(math.Ceil(float64(total) / float64(pageSize))),
		},
	})
}

type RideCreateReq struct {
	Status           string    `json:"status"`
	RiderID          uint      `json:"rider_id"`
	DriverID         uint      `json:"driver_id"`
	PickupLatitude   float64   `json:"pickup_latitude"`
	PickupLongitude  float64   `json:"pickup_longitude"`
	DropoffLatitude  float64   `json:"dropoff_latitude"`
	DropoffLongitude float64   `json:"dropoff_longitude"`
	PickupTime       time.Time `json:"pickup_time"`
}

// Create handles POST /api/rides.
func (h *RideHandler) Create(c *fiber.Ctx) error {
	var req RideCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Status) == "" {
		errs.Add("status", "status is required")
	}
	if req.RiderID == 0 {
		errs.Add("rider_id", "rider_id is required")
	}
	if req.DriverID == 0 {
		errs.Add("driver_id", "driver_id is required")
	}
	if req.PickupTime.IsZero() {
		errs.Add("pickup_time", "pickup_time is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	// Both participants must exist; the FK would reject it anyway but
	// a field error beats a bare 500.
	ok, err := h.participantsExist(req.RiderID, req.DriverID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to verify participants",
		})
	}
	if !ok {
		errs.Add("rider_id", "rider or driver does not exist")
		return validationFail(c, errs)
	}

	ride := models.Ride{
		Status:           strings.TrimSpace(req.Status),
		RiderID:          req.RiderID,
		DriverID:         req.DriverID,
		PickupLatitude:   req.PickupLatitude,
		PickupLongitude:  req.PickupLongitude,
		DropoffLatitude:  req.DropoffLatitude,
		DropoffLongitude: req.DropoffLongitude,
		PickupTime:       req.PickupTime,
	}
	if err := h.DB.Create(&ride).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to create ride",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"id": ride.ID},
	})
}

func (h *RideHandler) participantsExist(riderID, driverID uint) (bool, error) {
	var count int64
	err := h.DB.Model(&models.User{}).
		Where("id IN ?", []uint{riderID, driverID}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	want := int64(2)
	if riderID == driverID {
		want = 1 // nothing stops a rider driving themselves
	}
	return count >= want, nil
}

func (h *RideHandler) loadRide(c *fiber.Ctx) (*models.Ride, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid ride id")
	}

	var ride models.Ride
	err = h.DB.Preload("Rider").Preload("Driver").First(&ride, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "ride not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch ride")
	}
	return &ride, nil
}

// Get handles GET /api/rides/:id.
func (h *RideHandler) Get(c *fiber.Ctx) error {
	ride, err := h.loadRide(c)
	if err != nil {
		return err
	}

	rides := []models.Ride{*ride}
	if err := h.attachTodaysEvents(rides); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch ride events",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    serializeRide(rides[0]),
	})
}

type RideUpdateReq struct {
	Status           *string    `json:"status"`
	RiderID          *uint      `json:"rider_id"`
	DriverID         *uint      `json:"driver_id"`
	PickupLatitude   *float64   `json:"pickup_latitude"`
	PickupLongitude  *float64   `json:"pickup_longitude"`
	DropoffLatitude  *float64   `json:"dropoff_latitude"`
	DropoffLongitude *float64   `json:"dropoff_longitude"`
	PickupTime       *time.Time `json:"pickup_time"`
}

// Update handles PUT and PATCH on /api/rides/:id. Only the fields
// present in the body change.
func (h *RideHandler) Update(c *fiber.Ctx) error {
	ride, err := h.loadRide(c)
	if err != nil {
		return err
	}

	var req RideUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if req.Status != nil {
		s := strings.TrimSpace(*req.Status)
		if s == "" {
			errs := FieldErrors{}
			errs.Add("status", "status cannot be empty")
			return validationFail(c, errs)
		}
		ride.Status = s
	}
	if req.RiderID != nil {
		ride.RiderID = *req.RiderID
	}
	if req.DriverID != nil {
		ride.DriverID = *req.DriverID
	}
	if req.PickupLatitude != nil {
		ride.PickupLatitude = *req.PickupLatitude
	}
	if req.PickupLongitude != nil {
		ride.PickupLongitude = *req.PickupLongitude
	}
	if req.DropoffLatitude != nil {
		ride.DropoffLatitude = *req.DropoffLatitude
	}
	if req.DropoffLongitude != nil {
		ride.DropoffLongitude = *req.DropoffLongitude
	}
	if req.PickupTime != nil {
		ride.PickupTime = *req.PickupTime
	}

	if req.RiderID != nil || req.DriverID != nil {
		ok, err := h.participantsExist(ride.RiderID, ride.DriverID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "failed to verify participants",
			})
		}
		if !ok {
			field := "rider_id"
			if req.RiderID == nil {
				field = "driver_id"
			}
			errs := FieldErrors{}
			errs.Add(field, "rider or driver does not exist")
			return validationFail(c, errs)
		}
	}

	// Save only the ride row. With Rider/Driver preloaded, a plain
	// Save would push the association PKs back over the foreign keys
	// and quietly undo a participant change.
	if err := h.DB.Omit(clause.Associations).Save(ride).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to update ride",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "ride updated",
	})
}

// Delete handles DELETE /api/rides/:id. Ride events go with the ride
// via the FK cascade.
func (h *RideHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ride id")
	}

	res := h.DB.Delete(&models.Ride{}, id)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to delete ride",
		})
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "ride not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "ride deleted",
	})
}

type RideEventReq struct {
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// CreateEvent handles POST /api/rides/:id/events. Events are
// append-only; there is no update or delete for them.
func (h *RideHandler) CreateEvent(c *fiber.Ctx) error {
	ride, err := h.loadRide(c)
	if err != nil {
		return err
	}

	var req RideEventReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	desc := strings.TrimSpace(req.Description)
	errs := FieldErrors{}
	if desc == "" {
		errs.Add("description", "description is required")
	} else if len(desc) > 255 {
		errs.Add("description", "description must be at most 255 characters")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	event := models.RideEvent{
		RideID:      ride.ID,
		Description: desc,
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "invalid metadata",
			})
		}
		event.Metadata = datatypes.JSON(raw)
	}

	if err := h.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to create ride event",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    serializeRideEvent(event),
	})
}

// Statuses handles GET /api/rides/statuses, the distinct status values
// currently in use. Feeds the admin list filter dropdown.
func (h *RideHandler) Statuses(c *fiber.Ctx) error {
	var statuses []string
	err := h.DB.
		Model(&models.Ride{}).
		Distinct("status").
		Order("status ASC").
		Pluck("status", &statuses).
		Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch statuses",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    statuses,
	})
}
