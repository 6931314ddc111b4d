package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baselog-dev/baselog/internal/models"
)

// SaleRequest is the create/update body for a sale
type SaleRequest struct {
	ProductID string `json:"productId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// withRelations preloads what every sale response carries.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").Preload("User")
}

// checkSaleRefs answers 400 when the product or buyer does not exist.
func (s *Server) checkSaleRefs(c *gin.Context, req *SaleRequest) bool {
	var product models.Product
	if err := models.FindByID(s.db, &product, req.ProductID); err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product"})
			return false
		}
		s.logger.Error().Err(err).Msg("Failed to find product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}

	var user models.User
	if err := models.FindByID(s.db, &user, req.UserID); err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown user"})
			return false
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}
	return true
}

func (s *Server) findSale(c *gin.Context, id string) (*models.Sale, bool) {
	var sale models.Sale
	if err := models.FindByID(withRelations(s.db), &sale, id); err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find sale")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return &sale, true
}

// @Summary List sales
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Sale
// @Router /sales [get]
func (s *Server) listSales(c *gin.Context) {
	var sales []models.Sale
	if err := withRelations(s.db).Order("created_at DESC").Find(&sales).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list sales")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, sales)
}

// @Summary List a user's sales
// @Description Users may list their own sales; admins anyone's
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} models.Sale
// @Failure 403 {object} map[string]interface{}
// @Router /sales/users/{id} [get]
func (s *Server) listSalesByUser(c *gin.Context) {
	userID := c.Param("id")
	sessionData, _ := GetSessionData(c)

	if userID != sessionData.UserID && !sessionData.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var sales []models.Sale
	if err := withRelations(s.db).Where("user_id = ?", userID).Order("created_at DESC").Find(&sales).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list user sales")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, sales)
}

// @Summary Get sale
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 200 {object} models.Sale
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /sales/{id} [get]
func (s *Server) getSale(c *gin.Context) {
	sale, ok := s.findSale(c, c.Param("id"))
	if !ok {
		return
	}

	sessionData, _ := GetSessionData(c)
	if sale.UserID != sessionData.UserID && !sessionData.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	c.JSON(http.StatusOK, sale)
}

// @Summary Create sale
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaleRequest true "Sale"
// @Success 201 {object} models.Sale
// @Failure 400 {object} map[string]interface{}
// @Router /sales [post]
func (s *Server) createSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.checkSaleRefs(c, &req) {
		return
	}

	sale := models.Sale{
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Quantity:  req.Quantity,
	}
	if err := s.db.Omit(clause.Associations).Create(&sale).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create sale")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale"})
		return
	}

	created, ok := s.findSale(c, sale.ID)
	if !ok {
		return
	}

	s.logger.Info().Str("sale_id", sale.ID).Str("product_id", sale.ProductID).Int("quantity", sale.Quantity).Msg("Sale created")
	c.JSON(http.StatusCreated, created)
}

// @Summary Update sale
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Param request body SaleRequest true "Sale"
// @Success 200 {object} models.Sale
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /sales/{id} [put]
func (s *Server) updateSale(c *gin.Context) {
	sale, ok := s.findSale(c, c.Param("id"))
	if !ok {
		return
	}

	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.checkSaleRefs(c, &req) {
		return
	}

	err := s.db.Model(&models.Sale{}).Where("id = ?", sale.ID).Updates(map[string]any{
		"product_id": req.ProductID,
		"user_id":    req.UserID,
		"quantity":   req.Quantity,
	}).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update sale")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale"})
		return
	}

	updated, ok := s.findSale(c, sale.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete sale
// @Tags sales
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /sales/{id} [delete]
func (s *Server) deleteSale(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Sale{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete sale")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sale"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	s.logger.Info().Str("sale_id", c.Param("id")).Msg("Sale deleted")
	c.Status(http.StatusNoContent)
}
