package models

import "time"

// CollectionType describes how a collector operates.
type CollectionType string

const (
	CollectionMobile CollectionType = "MOBILE"
	CollectionFixed  CollectionType = "FIXED"
	CollectionBoth   CollectionType = "BOTH"
)

// Collector is a company that collects waste, either at its points or by pickup.
type Collector struct {
	ID             string         `bson:"id" json:"id"`
	UserID         string         `bson:"userId" json:"-"`
	CompanyName    string         `bson:"companyName" json:"companyName"`
	TradeName      string         `bson:"tradeName" json:"tradeName"`
	Phone          string         `bson:"phone" json:"phone,omitempty"`
	CollectionType CollectionType `bson:"collectionType" json:"collectionType"`
	AcceptedLines  Lines          `bson:"acceptedLines" json:"acceptedLines"`
	Headquarters   *Address       `bson:"headquarters,omitempty" json:"headquarters,omitempty"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	EditedAt       time.Time      `bson:"editedAt" json:"editedAt"`
}

// CollectionPoint is a fixed drop-off location operated by a collector.
type CollectionPoint struct {
	ID            string    `bson:"id" json:"id"`
	CollectorID   string    `bson:"collectorId" json:"collectorId"`
	Name          string    `bson:"name" json:"name"`
	Address       `bson:",inline"`
	AcceptedLines Lines     `bson:"acceptedLines" json:"acceptedLines"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	EditedAt      time.Time `bson:"editedAt" json:"editedAt"`
}

// CollectionPointWithCollector is a point joined with its owning collector.
type CollectionPointWithCollector struct {
	CollectionPoint `bson:",inline"`
	Collector       Collector `bson:"collector"`
}

// CollectorSearchCriteria filters collectors at the persistence layer.
type CollectorSearchCriteria struct {
	Line           MaterialLine
	CollectionType CollectionType
}
