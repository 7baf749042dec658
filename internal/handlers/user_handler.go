package handlers

import (
	"errors"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/ride-admin/internal/models"
)

// UserHandler backs the admin user screens.
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// List handles GET /api/admin/users. Supports an optional role filter
// and a case-insensitive email search.
func (h *UserHandler) List(c *fiber.Ctx) error {
	page, pageSize := clampPagination(c.QueryInt("page", 1), c.QueryInt("page_size", 10))

	q := h.DB.Model(&models.User{})
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}
	if email := strings.TrimSpace(c.Query("email")); email != "" {
		q = q.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(email)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to count users",
		})
	}

	var users []models.User
	if err := q.
		Order("id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch users",
		})
	}

	out := make([]UserJSON, 0, len(users))
	for _, u := range users {
		out = append(out, serializeUser(u))
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

type UserUpdateReq struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
}

// Update handles PATCH /api/admin/users/:id. The only place a role can
// change, and only to one of the three known values.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var u models.User
	err = h.DB.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to fetch user",
		})
	}

	var req UserUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if req.Role != nil {
		role := models.Role(strings.TrimSpace(*req.Role))
		if !role.Valid() {
			errs := FieldErrors{}
			errs.Add("role", "role must be one of customer, rider, admin")
			return validationFail(c, errs)
		}
		u.Role = role
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}

	if err := h.DB.Save(&u).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to update user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    serializeUser(u),
	})
}

// Delete handles DELETE /api/admin/users/:id. The FK cascade removes
// the user's rides and, through them, their ride events.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to delete user",
		})
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "user deleted",
	})
}
