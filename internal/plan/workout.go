package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Reps accepts either a number or a range string such as "8-12"
type Reps string

// UnmarshalJSON decodes numbers and strings alike
func (r *Reps) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*r = Reps(strconv.Itoa(int(num)))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*r = Reps(str)
		return nil
	}
	return fmt.Errorf("invalid reps format: %s", string(data))
}

// ExerciseItem is one prescribed exercise
type ExerciseItem struct {
	Name        string `json:"name" validate:"required"`
	Sets        int    `json:"sets" validate:"gte=0"`
	Reps        Reps   `json:"reps"`
	RestSeconds int    `json:"restSeconds" validate:"gte=0"`
	Load        string `json:"load,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Session is one training or therapy session
type Session struct {
	DayNumber int            `json:"dayNumber" validate:"gte=0"`
	DayName   string         `json:"dayName,omitempty"`
	FocusArea string         `json:"focusArea,omitempty"`
	Warmup    string         `json:"warmup,omitempty"`
	Cooldown  string         `json:"cooldown,omitempty"`
	Exercises []ExerciseItem `json:"exercises" validate:"required,min=1,dive"`
}

// WorkoutPlan is the training plan document
type WorkoutPlan struct {
	Goal      string    `json:"goal"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Sessions  []Session `json:"sessions" validate:"required,min=1,dive"`
}

// Phase groups physiotherapy sessions over a number of weeks
type Phase struct {
	Name     string    `json:"name" validate:"required"`
	Weeks    int       `json:"weeks" validate:"gte=0"`
	Sessions []Session `json:"sessions" validate:"required,min=1,dive"`
}

// PhysioPlan is the rehabilitation plan document
type PhysioPlan struct {
	Condition string  `json:"condition" validate:"required"`
	Goal      string  `json:"goal,omitempty"`
	Phases    []Phase `json:"phases" validate:"required,min=1,dive"`
}

// ExerciseCount returns the number of prescribed exercises across sessions
func (p *WorkoutPlan) ExerciseCount() int {
	n := 0
	for _, s := range p.Sessions {
		n += len(s.Exercises)
	}
	return n
}
