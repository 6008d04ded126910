package domain

import "strings"

// Role identifies the kind of principal behind a token
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// AlertStatus is the lifecycle state of an SOS alert. It only moves active -> resolved.
type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
)

// ParseAlertStatus accepts "", "active" or "resolved"
func ParseAlertStatus(s string) (AlertStatus, error) {
	switch AlertStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case AlertActive:
		return AlertActive, nil
	case AlertResolved:
		return AlertResolved, nil
	}
	return "", Invalid("status must be 'active' or 'resolved'")
}

// Location is a WGS84 point attached to an alert
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks coordinate ranges
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return Invalid("latitude must be between -90 and 90")
	}
	if l.Lng < -180 || l.Lng > 180 {
		return Invalid("longitude must be between -180 and 180")
	}
	return nil
}

// EmployeeFilter narrows a directory listing. The zero value matches everyone.
type EmployeeFilter struct {
	Query      string // substring of name or any medical condition, case-insensitive
	Department string
	BloodType  string
}

// IsZero reports whether the filter matches everything
func (f EmployeeFilter) IsZero() bool {
	return f.Query == "" && f.Department == "" && f.BloodType == ""
}

// Match applies the filter to one employee's searchable fields
func (f EmployeeFilter) Match(name, department, bloodType string, conditions []string) bool {
	if f.Department != "" && department != f.Department {
		return false
	}
	if f.BloodType != "" && bloodType != f.BloodType {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(name), q) {
		return true
	}
	for _, c := range conditions {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}
