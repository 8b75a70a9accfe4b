package entity

import "time"

// Category groups products. Its active flag gates product assignment; an
// inactive category can never receive new or updated products.
type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}

func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
