package model

import "time"

// Slot - вычисляемый интервал [Start, End), в БД не хранится
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
