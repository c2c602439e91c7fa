package models

import (
	"strings"
	"time"
)

// Role is the kind of account an authenticated user holds.
type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleCollector Role = "COLLECTOR"
	RoleAdmin     Role = "ADMIN"
)

type Individual struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
}

type Company struct {
	CompanyName string `bson:"companyName" json:"companyName"`
}

// Client is a household or business that generates waste.
type Client struct {
	ID         string      `bson:"id" json:"id"`
	UserID     string      `bson:"userId" json:"-"`
	Phone      string      `bson:"phone" json:"phone,omitempty"`
	Individual *Individual `bson:"individual,omitempty" json:"individual,omitempty"`
	Company    *Company    `bson:"company,omitempty" json:"company,omitempty"`
	Address    *Address    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
}

// DisplayName is the name shown to collectors.
func (c *Client) DisplayName() string {
	switch {
	case c.Individual != nil:
		return strings.TrimSpace(c.Individual.FirstName + " " + c.Individual.LastName)
	case c.Company != nil && c.Company.CompanyName != "":
		return c.Company.CompanyName
	default:
		return "Cliente"
	}
}
