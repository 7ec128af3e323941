package models

import "time"

type Customer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"size:255;not null;uniqueIndex:uq_customers_email" json:"email"`
	FirstName        string    `gorm:"size:60;not null" json:"first_name"`
	LastName         string    `gorm:"size:60;not null" json:"last_name"`
	RegistrationDate time.Time `gorm:"type:date;not null" json:"registration_date"`

	Addresses []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Cart      *Cart     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
	Reviews   []Review  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order   `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
}

// Address belongs to one customer. Several defaults of the same type may coexist.
type Address struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID uint        `gorm:"not null;index:idx_addresses_customer" json:"customer_id"`
	Street     string      `gorm:"size:120;not null" json:"street"`
	Unit       *string     `gorm:"size:10" json:"unit,omitempty"`
	City       string      `gorm:"size:80;not null" json:"city"`
	PostalCode *string     `gorm:"size:10" json:"postal_code,omitempty"`
	Region     *string     `gorm:"size:40" json:"region,omitempty"`
	Country    string      `gorm:"size:60;not null" json:"country"`
	Type       AddressType `gorm:"type:varchar(10);not null" json:"type"`
	IsDefault  bool        `gorm:"not null;default:false" json:"is_default"`
}
