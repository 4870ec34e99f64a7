package org

import (
	"encoding/json"
	"time"
)

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PositionCount string    `json:"positionCount"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Position struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DepartmentID   string    `json:"department"`
	DepartmentName string    `json:"departmentName,omitempty"`
	ReportsTo      string    `json:"reportsTo"`
	EmployeeLimit  string    `json:"employeeLimit"`
	LeavePolicyID  string    `json:"leavePolicy,omitempty"`
	HiredEmployees int       `json:"hiredEmployees"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Option is the id/name pair served to select inputs.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CountText holds free-text capacity descriptors ("unlimited" or a
// string-encoded count). Clients send either a JSON string or a number.
type CountText string

func (c *CountText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*c = CountText(value)
		return nil
	}
	var value json.Number
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*c = CountText(value.String())
	return nil
}
