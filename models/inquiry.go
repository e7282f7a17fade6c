package models

import "time"

type Inquiry struct {
	ID          string    `json:"id"`
	Service     string    `json:"service"`
	Name        string    `json:"name" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone,omitempty"`
	EventDate   string    `json:"eventDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Guests      int       `json:"guests,omitempty" validate:"gte=0,lte=10000"`
	Message     string    `json:"message,omitempty" validate:"max=2000"`
	SubmittedAt time.Time `json:"submittedAt"`
}
