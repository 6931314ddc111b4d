package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/baselog-dev/baselog/internal/forms"
	"github.com/baselog-dev/baselog/internal/models"
)

// CustomerRequest is the create/update body for a customer
type CustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	CPF       string `json:"cpf" binding:"required,cpf"`
	BirthDate string `json:"birthDate" binding:"required,datetime=2006-01-02"`
	Gender    string `json:"gender" binding:"required,oneof=M F O"`
	Phone     string `json:"phone" binding:"required,br_mobile"`
	Address   string `json:"address" binding:"required"`
}

func (r CustomerRequest) apply(c *models.Customer) {
	c.Name = strings.TrimSpace(r.Name)
	c.Email = normalizeEmail(r.Email)
	c.CPF = r.CPF
	c.BirthDate = r.BirthDate
	c.Gender = r.Gender
	c.Phone = r.Phone
	c.Address = strings.TrimSpace(r.Address)
}

// bindCustomer binds and checks the body, answering 400/409 itself on failure.
func (s *Server) bindCustomer(c *gin.Context, selfID string) (*CustomerRequest, bool) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	birth, _ := time.Parse(forms.DateLayout, req.BirthDate)
	if birth.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Birth date cannot be in the future"})
		return nil, false
	}

	var taken int64
	if err := s.db.Model(&models.Customer{}).Where("cpf = ? AND id <> ?", req.CPF, selfID).Count(&taken).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check CPF")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	if taken > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "CPF already registered"})
		return nil, false
	}

	return &req, true
}

// @Summary List customers
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Customer
// @Router /customers [get]
func (s *Server) listCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := s.db.Order("name ASC").Find(&customers).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list customers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// @Summary Get customer
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]interface{}
// @Router /customers/{id} [get]
func (s *Server) getCustomer(c *gin.Context) {
	var customer models.Customer
	if err := models.FindByID(s.db, &customer, c.Param("id")); err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find customer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CustomerRequest true "Customer"
// @Success 201 {object} models.Customer
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /customers [post]
func (s *Server) createCustomer(c *gin.Context) {
	req, ok := s.bindCustomer(c, "")
	if !ok {
		return
	}

	var customer models.Customer
	req.apply(&customer)
	if err := s.db.Create(&customer).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create customer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	s.logger.Info().Str("customer_id", customer.ID).Msg("Customer created")
	c.JSON(http.StatusCreated, customer)
}

// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param request body CustomerRequest true "Customer"
// @Success 200 {object} models.Customer
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /customers/{id} [put]
func (s *Server) updateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := models.FindByID(s.db, &customer, c.Param("id")); err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find customer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	req, ok := s.bindCustomer(c, customer.ID)
	if !ok {
		return
	}

	req.apply(&customer)
	if err := s.db.Save(&customer).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update customer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Delete customer
// @Tags customers
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /customers/{id} [delete]
func (s *Server) deleteCustomer(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Customer{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete customer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	s.logger.Info().Str("customer_id", c.Param("id")).Msg("Customer deleted")
	c.Status(http.StatusNoContent)
}
