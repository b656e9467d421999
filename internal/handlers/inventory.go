package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type CreateInventoryItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Quantity    *int     `json:"quantity" binding:"required"`
	MinQuantity *int     `json:"min_quantity"`
	UnitCost    *float64 `json:"unit_cost"`
	Description *string  `json:"description"`
	Supplier    *string  `json:"supplier"`
}

type UpdateInventoryItemRequest struct {
	Name               *string  `json:"name"`
	Category           *string  `json:"category"`
	Quantity           *int     `json:"quantity"`
	QuantityAdjustment *int     `json:"quantity_adjustment"`
	MinQuantity        *int     `json:"min_quantity"`
	UnitCost           *float64 `json:"unit_cost"`
	Description        *string  `json:"description"`
	Supplier           *string  `json:"supplier"`
}

func inventoryItemBody(item *models.InventoryItem) gin.H {
	return gin.H{
		"id":             item.ID,
		"name":           item.Name,
		"category":       item.Category,
		"quantity":       item.Quantity,
		"min_quantity":   item.MinQuantity,
		"unit_cost":      item.UnitCost,
		"description":    item.Description,
		"supplier":       item.Supplier,
		"last_restocked": item.LastRestocked,
		"low_stock":      item.LowStock(),
	}
}

func ListInventory(c *gin.Context) {
	query := database.DB.Model(&models.InventoryItem{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("low_stock") == "true" {
		query = query.Where("quantity <= min_quantity")
	}

	var items []models.InventoryItem
	if err := query.Order("name").Find(&items).Error; err != nil {
		respondInternal(c, err, "Failed to list inventory")
		return
	}

	body := make([]gin.H, 0, len(items))
	for i := range items {
		body = append(body, inventoryItemBody(&items[i]))
	}
	c.JSON(http.StatusOK, body)
}

func GetInventoryItem(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Inventory item not found")
			return
		}
		respondInternal(c, err, "Failed to load inventory item")
		return
	}
	c.JSON(http.StatusOK, inventoryItemBody(&item))
}

func CreateInventoryItem(c *gin.Context) {
	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if *req.Quantity < 0 {
		respondValidation(c, "quantity cannot be negative")
		return
	}

	now := time.Now()
	item := models.InventoryItem{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      *req.Quantity,
		MinQuantity:   cfg.Inventory.DefaultMinQuantity,
		UnitCost:      req.UnitCost,
		Description:   req.Description,
		Supplier:      req.Supplier,
		LastRestocked: &now,
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "INVENTORY_CREATE", "inventory_item", item.ID,
			"Added inventory item: "+item.Name)
	})
	if txErr != nil {
		if isUniqueViolation(txErr) {
			respondConflict(c, gin.H{"message": "Inventory item with this name already exists"})
			return
		}
		respondInternal(c, txErr, "Failed to create inventory item")
		return
	}
	c.JSON(http.StatusCreated, inventoryItemBody(&item))
}

func UpdateInventoryItem(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	var req UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if req.Quantity != nil && req.QuantityAdjustment != nil {
		respondValidation(c, "Provide quantity or quantity_adjustment, not both")
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Inventory item not found")
			return
		}
		respondInternal(c, err, "Failed to load inventory item")
		return
	}

	restocked := false
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			respondValidation(c, "quantity cannot be negative")
			return
		}
		restocked = *req.Quantity > item.Quantity
		item.Quantity = *req.Quantity
	}
	if req.QuantityAdjustment != nil {
		next := item.Quantity + *req.QuantityAdjustment
		if next < 0 {
			respondValidation(c, "Adjustment would make quantity negative")
			return
		}
		restocked = *req.QuantityAdjustment > 0
		item.Quantity = next
	}
	if req.MinQuantity != nil {
		item.MinQuantity = *req.MinQuantity
	}
	if req.UnitCost != nil {
		item.UnitCost = req.UnitCost
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Supplier != nil {
		item.Supplier = req.Supplier
	}
	if restocked {
		now := time.Now()
		item.LastRestocked = &now
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "INVENTORY_UPDATE", "inventory_item", item.ID,
			"Updated inventory item: "+item.Name)
	})
	if txErr != nil {
		if isUniqueViolation(txErr) {
			respondConflict(c, gin.H{"message": "Inventory item with this name already exists"})
			return
		}
		respondInternal(c, txErr, "Failed to update inventory item")
		return
	}
	c.JSON(http.StatusOK, inventoryItemBody(&item))
}

func DeleteInventoryItem(c *gin.Context) {
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Inventory item not found")
			return
		}
		respondInternal(c, err, "Failed to load inventory item")
		return
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "INVENTORY_DELETE", "inventory_item", item.ID,
			"Deleted inventory item: "+item.Name)
	})
	if txErr != nil {
		respondInternal(c, txErr, "Failed to delete inventory item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}
