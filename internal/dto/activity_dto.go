package dto

import "github.com/noah-isme/nightguard-api/internal/models"

// ActivityLogPage is one page of the audit trail, newest first.
type ActivityLogPage struct {
	Items    []models.ActivityLog `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}
