package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeFilterMatch(t *testing.T) {
	conditions := []string{"Asthma", "Penicillin allergy"}

	tests := []struct {
		name   string
		filter EmployeeFilter
		want   bool
	}{
		{"zero value", EmployeeFilter{}, true},
		{"name substring", EmployeeFilter{Query: "doe"}, true},
		{"condition substring", EmployeeFilter{Query: "ALLERG"}, true},
		{"no match", EmployeeFilter{Query: "diabetes"}, false},
		{"department", EmployeeFilter{Department: "Eng"}, true},
		{"department mismatch", EmployeeFilter{Department: "Ops"}, false},
		{"blood type", EmployeeFilter{BloodType: "O+"}, true},
		{"combined mismatch", EmployeeFilter{Query: "john", BloodType: "A-"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match("John Doe", "Eng", "O+", conditions))
		})
	}
}

func TestParseAlertStatus(t *testing.T) {
	s, err := ParseAlertStatus(" Active ")
	assert.NoError(t, err)
	assert.Equal(t, AlertActive, s)

	s, err = ParseAlertStatus("")
	assert.NoError(t, err)
	assert.Equal(t, AlertStatus(""), s)

	_, err = ParseAlertStatus("pending")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLocationValidate(t *testing.T) {
	assert.NoError(t, Location{Lat: 12.97, Lng: 77.59}.Validate())
	assert.ErrorIs(t, Location{Lat: 91}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Location{Lng: -181}.Validate(), ErrInvalidInput)
}

func TestValidationErrorMessage(t *testing.T) {
	err := Invalid("name is required")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "name is required", ve.Message)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
