package handlers

import (
	"net/http"

	"country-gdp-service/backend/models"

	"github.com/gofiber/fiber/v2"
)

// RefreshCountries fetches both sources and rewrites the store
// POST /countries/refresh
func (h *Handler) RefreshCountries(c *fiber.Ctx) error {
	result, err := h.Refresher.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetCountries lists countries
// GET /countries?region=&currency=&sort=gdp_desc|gdp_asc
func (h *Handler) GetCountries(c *fiber.Ctx) error {
	filter := models.CountryFilter{
		Region:   c.Query("region"),
		Currency: c.Query("currency"),
		Sort:     models.ParseSortMode(c.Query("sort")),
	}

	countries, err := h.Query.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(models.CountryList{
		Total: len(countries),
		Data:  countries,
	})
}

// GetCountry returns one country by exact name
// GET /countries/:name
func (h *Handler) GetCountry(c *fiber.Ctx) error {
	country, err := h.Query.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(country)
}

// DeleteCountry removes one country by exact name
// DELETE /countries/:name
func (h *Handler) DeleteCountry(c *fiber.Ctx) error {
	if err := h.Query.DeleteByName(c.UserContext(), c.Params("name")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Country deleted successfully"})
}
