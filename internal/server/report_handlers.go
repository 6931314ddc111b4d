package server

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baselog-dev/baselog/internal/forms"
)

// AverageTicketResponse is the average sale value over a range
type AverageTicketResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
	From    string  `json:"from,omitempty"`
	To      string  `json:"to,omitempty"`
}

// BreakdownBucket is the revenue of one product over a range
type BreakdownBucket struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// BreakdownResponse is the revenue share per product
type BreakdownResponse struct {
	Buckets []BreakdownBucket `json:"buckets"`
}

var errBadRange = errors.New("from must not be after to")

// salesInRange scopes a sales query to the inclusive [from, to] dates.
func salesInRange(c *gin.Context) (func(*gorm.DB) *gorm.DB, error) {
	var from, to time.Time
	var err error

	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(forms.DateLayout, v); err != nil {
			return nil, err
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(forms.DateLayout, v); err != nil {
			return nil, err
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errBadRange
	}

	return func(db *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			db = db.Where("sales.created_at >= ?", from)
		}
		if !to.IsZero() {
			db = db.Where("sales.created_at < ?", to.AddDate(0, 0, 1))
		}
		return db
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// @Summary Average ticket
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} AverageTicketResponse
// @Failure 400 {object} map[string]interface{}
// @Router /reports/average-ticket [get]
func (s *Server) averageTicket(c *gin.Context) {
	scope, err := salesInRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range: " + err.Error()})
		return
	}

	var row struct {
		Count int64
		Total float64
	}
	err = s.db.Table("sales").
		Select("COUNT(sales.id) AS count, COALESCE(SUM(sales.quantity * products.price), 0) AS total").
		Joins("JOIN products ON products.id = sales.product_id").
		Scopes(scope).
		Scan(&row).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to compute average ticket")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := AverageTicketResponse{Count: row.Count, From: c.Query("from"), To: c.Query("to")}
	if row.Count > 0 {
		resp.Average = roundCents(row.Total / float64(row.Count))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Sales breakdown
// @Description Revenue per product, largest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} BreakdownResponse
// @Failure 400 {object} map[string]interface{}
// @Router /reports/sales-breakdown [get]
func (s *Server) salesBreakdown(c *gin.Context) {
	scope, err := salesInRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range: " + err.Error()})
		return
	}

	var rows []struct {
		Label string
		Value float64
	}
	err = s.db.Table("sales").
		Select("products.name AS label, SUM(sales.quantity * products.price) AS value").
		Joins("JOIN products ON products.id = sales.product_id").
		Scopes(scope).
		Group("products.id, products.name").
		Order("value DESC, label ASC").
		Scan(&rows).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to compute sales breakdown")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var total float64
	for _, r := range rows {
		total += r.Value
	}

	resp := BreakdownResponse{Buckets: make([]BreakdownBucket, 0, len(rows))}
	for _, r := range rows {
		bucket := BreakdownBucket{Label: r.Label, Value: roundCents(r.Value)}
		if total > 0 {
			bucket.Percentage = roundCents(r.Value / total * 100)
		}
		resp.Buckets = append(resp.Buckets, bucket)
	}
	c.JSON(http.StatusOK, resp)
}
