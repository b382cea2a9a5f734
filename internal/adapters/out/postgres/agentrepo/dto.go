// Package agentrepo provides data transfer objects and mapping functions for
// delivery agent persistence.
package agentrepo

import (
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database structure for persisting delivery agent
// aggregates. Availability and the current order are indexed because dispatch
// selects on them.
type AgentDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                string
	Phone               string
	Vehicle             string
	IsAvailable         bool       `gorm:"index"`
	CurrentOrderID      *uuid.UUID `gorm:"type:uuid;index"`
	LastLatitude        *float64
	LastLongitude       *float64
	CompletedPickups    int
	CompletedDeliveries int
	Version             int
}

// TableName specifies the database table name for agent entities.
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent domain aggregate to its database representation.
func fromDomain(aggregate *agent.DeliveryAgent) AgentDTO {
	var currentOrderID *uuid.UUID
	if id := aggregate.CurrentOrderID(); id != nil {
		raw := id.Bytes()
		currentOrderID = &raw
	}

	var lat, lng *float64
	if point := aggregate.LastLocation(); point != nil {
		latitude := point.Latitude()
		longitude := point.Longitude()
		lat = &latitude
		lng = &longitude
	}

	return AgentDTO{
		ID:                  aggregate.ID().Bytes(),
		Name:                aggregate.Name(),
		Phone:               aggregate.Phone().String(),
		Vehicle:             string(aggregate.Vehicle()),
		IsAvailable:         aggregate.IsAvailable(),
		CurrentOrderID:      currentOrderID,
		LastLatitude:        lat,
		LastLongitude:       lng,
		CompletedPickups:    aggregate.CompletedPickups(),
		CompletedDeliveries: aggregate.CompletedDeliveries(),
		Version:             aggregate.Version(),
	}
}

// toDomain converts a database DTO back to an agent domain aggregate.
func toDomain(dto AgentDTO) (*agent.DeliveryAgent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes((*dto.CurrentOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		currentOrderID = &orderID
	}

	var lastLocation *kernel.GeoPoint
	if dto.LastLatitude != nil && dto.LastLongitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LastLatitude, *dto.LastLongitude)
		if pointErr != nil {
			return nil, pointErr
		}
		lastLocation = &point
	}

	return agent.RestoreDeliveryAgent(
		id,
		dto.Name,
		phone,
		agent.VehicleType(dto.Vehicle),
		dto.IsAvailable,
		currentOrderID,
		lastLocation,
		dto.CompletedPickups,
		dto.CompletedDeliveries,
		dto.Version,
	)
}
