package shift

import "time"

// Interval is an unpaid break inside the shift window.
type Interval struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Shift struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Intervals   []Interval `json:"intervals"`
	WorkingDays []string   `json:"workingDays"`
	Notes       string     `json:"notes"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
