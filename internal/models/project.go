package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WorkingHours captures an organisation's working-day configuration. Times
// are minutes from midnight; the timezone is used for day-boundary
// arithmetic only.
type WorkingHours struct {
	StartOfDay  int      `json:"startOfDay"`
	EndOfDay    int      `json:"endOfDay"`
	WorkingDays []string `json:"workingDays"`
	Timezone    string   `json:"timezone"`
}

// DefaultWorkingHours returns the fallback applied when a project carries no
// explicit settings: 09:00-17:00, Monday through Friday, UTC.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		StartOfDay:  9 * 60,
		EndOfDay:    17 * 60,
		WorkingDays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Timezone:    "UTC",
	}
}

// ProjectSettings stores per-project scheduling configuration as JSONB.
type ProjectSettings struct {
	StartDate     time.Time    `json:"startDate"`
	EndDate       time.Time    `json:"endDate"`
	WorkingHours  WorkingHours `json:"workingHours"`
	LunchStart    int          `json:"lunchStart"`
	LunchDuration int          `json:"lunchDuration"`
}

// Value marshals settings to JSON for persistence.
func (p ProjectSettings) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal project settings: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the settings struct.
func (p *ProjectSettings) Scan(value interface{}) error {
	if value == nil {
		*p = ProjectSettings{}
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan project settings: %w", err)
	}
	if len(data) == 0 {
		*p = ProjectSettings{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal project settings: %w", err)
	}
	return nil
}

// Project is the scheduling root: settings plus target groups.
type Project struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Settings  *ProjectSettings `db:"settings" json:"settings,omitempty"`
	Groups    []Group          `db:"-" json:"groups,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// Group is a target group of participants scheduled together.
type Group struct {
	ID           string        `db:"id" json:"id"`
	ProjectID    string        `db:"project_id" json:"project_id"`
	Name         string        `db:"name" json:"name"`
	ColorTag     string        `db:"color_tag" json:"color_tag"`
	Participants []Participant `db:"-" json:"participants,omitempty"`
}

// Participant belongs to a group; the optional role drives role-based
// eligibility filtering.
type Participant struct {
	ID      string  `db:"id" json:"id"`
	GroupID string  `db:"group_id" json:"group_id"`
	Name    string  `db:"name" json:"name"`
	RoleID  *string `db:"role_id" json:"role_id,omitempty"`
}
