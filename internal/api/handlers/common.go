package handlers

import (
	"strconv"

	"gastos-server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserID reads the authenticated user id stored by the auth
// middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userID").(string)
	return uuid.Parse(raw)
}

// parsePeriod reads the mandatory year and month query parameters.
func parsePeriod(c *fiber.Ctx) (int, int, bool) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		return 0, 0, false
	}
	return year, month, true
}

// accountFilter reads the optional account query parameter.
func accountFilter(c *fiber.Ctx) *models.Account {
	if raw := c.Query("account"); raw != "" {
		account := models.Account(raw)
		return &account
	}
	return nil
}
