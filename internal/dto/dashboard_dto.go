package dto

import "github.com/noah-isme/nightguard-api/internal/models"

// DashboardStats aggregates the counts and lists shown on the dashboard.
type DashboardStats struct {
	TotalIncidents   int                     `json:"totalIncidents"`
	TotalSignIns     int                     `json:"totalSignIns"`
	ActiveVenues     int                     `json:"activeVenues"`
	TotalVenues      int                     `json:"totalVenues"`
	TotalCameras     int                     `json:"totalCameras"`
	PendingIncidents int                     `json:"pendingIncidents"`
	OpenCctvIssues   int                     `json:"openCctvIssues"`
	RecentIncidents  []models.Incident       `json:"recentIncidents"`
	ActiveSignIns    []models.SecuritySignIn `json:"activeSignIns"`
	Venues           []models.Venue          `json:"venues"`
}
