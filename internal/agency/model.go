package agency

import "time"

// Agency is an organizational office that can originate, hold or receive
// documents. Reference data: rows are seeded or administered elsewhere and
// read-only from this service's perspective.
type Agency struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:128"`
	Code      string    `json:"code" gorm:"size:16"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Agency) TableName() string {
	return "agencies"
}
