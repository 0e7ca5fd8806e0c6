package handlers

import (
	"net/http"

	"officeflow_app_go/db"
	"officeflow_app_go/middleware"
	"officeflow_app_go/models"

	"github.com/labstack/echo/v4"
)

type contactRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Address    string  `json:"address"`
	PostalCode string  `json:"postal_code"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
}

// ListContactsHandler returns the organization's contacts
func ListContactsHandler(c echo.Context) error {
	search := c.QueryParam("search")

	query := middleware.OrgScoped(c, db.DB).Order("name ASC")
	if search != "" {
		likeSearch := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", likeSearch, likeSearch)
	}

	var contacts []models.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error fetching contacts")
	}

	return c.JSON(http.StatusOK, contacts)
}

// GetContactHandler returns a single contact
func GetContactHandler(c echo.Context) error {
	var contact models.Contact
	if err := middleware.OrgScoped(c, db.DB).First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
	}
	return c.JSON(http.StatusOK, contact)
}

// CreateContactHandler creates a contact
func CreateContactHandler(c echo.Context) error {
	org := middleware.GetOrganization(c)
	if org == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Organization not found")
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	contact := models.Contact{
		OrganizationID: org.ID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		PostalCode:     req.PostalCode,
		City:           req.City,
		Country:        "Nederland",
	}
	if req.Country != "" {
		contact.Country = req.Country
	}

	if err := db.DB.Create(&contact).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating contact")
	}

	return c.JSON(http.StatusCreated, contact)
}

// UpdateContactHandler updates a contact. Invoices keep their own client
// snapshot, so editing a contact never rewrites issued documents.
func UpdateContactHandler(c echo.Context) error {
	var contact models.Contact
	if err := middleware.OrgScoped(c, db.DB).First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	contact.Name = req.Name
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Address = req.Address
	contact.PostalCode = req.PostalCode
	contact.City = req.City
	if req.Country != "" {
		contact.Country = req.Country
	}

	if err := db.DB.Save(&contact).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error updating contact")
	}

	return c.JSON(http.StatusOK, contact)
}

// DeleteContactHandler soft-deletes a contact
func DeleteContactHandler(c echo.Context) error {
	var contact models.Contact
	if err := middleware.OrgScoped(c, db.DB).First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
	}

	if err := db.DB.Delete(&contact).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting contact")
	}

	return c.NoContent(http.StatusNoContent)
}
