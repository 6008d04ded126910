package models

import (
	"time"

	"qraksha/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Employees
// ============================================================

// Employee represents employees table
type Employee struct {
	ID                string             `gorm:"primaryKey;size:36" json:"id"`
	Username          string             `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Name              string             `gorm:"size:100;not null" json:"name"`
	BloodType         string             `gorm:"size:5;not null;index" json:"bloodType"`
	Department        string             `gorm:"size:100;not null;index" json:"department"`
	EmergencyContacts []EmergencyContact `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"emergencyContacts"`
	MedicalConditions []string           `gorm:"serializer:json;type:text" json:"medicalConditions"`
	Password          string             `gorm:"size:255;not null" json:"-"`
	QRCode            string             `gorm:"size:255" json:"qrCode"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate assigns the UUID primary key
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EmergencyContact represents emergency_contacts table; Position keeps the order given at registration
type EmergencyContact struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	EmployeeID   string `gorm:"size:36;not null;index" json:"-"`
	Position     int    `gorm:"not null;default:0" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Relationship string `gorm:"size:50" json:"relationship"`
	Phone        string `gorm:"size:30;not null" json:"phone"`
}

func (EmergencyContact) TableName() string {
	return "emergency_contacts"
}

// ContactResponse DTO
type ContactResponse struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
}

// EmployeeResponse DTO. It has no password field at all.
type EmployeeResponse struct {
	ID                string            `json:"id"`
	Username          string            `json:"username"`
	Name              string            `json:"name"`
	BloodType         string            `json:"bloodType"`
	Department        string            `json:"department"`
	EmergencyContacts []ContactResponse `json:"emergencyContacts"`
	MedicalConditions []string          `json:"medicalConditions"`
	QRCode            string            `json:"qrCode"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	contacts := make([]ContactResponse, len(e.EmergencyContacts))
	for i, c := range e.EmergencyContacts {
		contacts[i] = ContactResponse{Name: c.Name, Relationship: c.Relationship, Phone: c.Phone}
	}
	conditions := e.MedicalConditions
	if conditions == nil {
		conditions = []string{}
	}
	return &EmployeeResponse{
		ID:                e.ID,
		Username:          e.Username,
		Name:              e.Name,
		BloodType:         e.BloodType,
		Department:        e.Department,
		EmergencyContacts: contacts,
		MedicalConditions: conditions,
		QRCode:            e.QRCode,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// ============================================================
// Admins
// ============================================================

// Admin represents admins table. Rows come from the seeder only.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Admin) TableName() string {
	return "admins"
}

// ============================================================
// SOS Alerts
// ============================================================

// SOSAlert represents sos_alerts table. EmployeeID is a weak reference.
type SOSAlert struct {
	ID         string             `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string             `gorm:"size:36;not null;index" json:"employeeId"`
	Timestamp  time.Time          `gorm:"column:triggered_at;not null;index" json:"timestamp"`
	Status     domain.AlertStatus `gorm:"size:10;not null;default:'active';index" json:"status"`
	Latitude   *float64           `json:"-"`
	Longitude  *float64           `json:"-"`
	ResolvedAt *time.Time         `json:"resolvedAt,omitempty"`
	ResolvedBy *uint              `json:"resolvedBy,omitempty"`
	CreatedAt  time.Time          `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time          `gorm:"autoUpdateTime" json:"-"`
}

func (SOSAlert) TableName() string {
	return "sos_alerts"
}

// BeforeCreate assigns the UUID primary key
func (a *SOSAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the alert still needs attention
func (a *SOSAlert) IsActive() bool {
	return a.Status == domain.AlertActive
}

// Location returns the alert position, if one was reported
func (a *SOSAlert) Location() *domain.Location {
	if a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	return &domain.Location{Lat: *a.Latitude, Lng: *a.Longitude}
}

// AlertResponse DTO. Employee fields are filled when the employee still exists.
type AlertResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employeeId"`
	EmployeeName    string             `json:"employeeName,omitempty"`
	Department      string             `json:"department,omitempty"`
	EmployeeMissing bool               `json:"employeeMissing,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
	Status          domain.AlertStatus `json:"status"`
	Location        *domain.Location   `json:"location,omitempty"`
	ResolvedAt      *time.Time         `json:"resolvedAt,omitempty"`
}

func (a *SOSAlert) ToResponse() *AlertResponse {
	return &AlertResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Timestamp:  a.Timestamp,
		Status:     a.Status,
		Location:   a.Location(),
		ResolvedAt: a.ResolvedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Employee{},
		&EmergencyContact{},
		&Admin{},
		&SOSAlert{},
	)
}
