// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and its relational shape.
package orderrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payout"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Scalar lifecycle fields live in indexed columns so the dispatch, payout and
// tracking queries can filter on them; the item lines and the audit timeline
// are document-shaped and stored as JSONB.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string    `gorm:"uniqueIndex"`
	BuyerID     uuid.UUID `gorm:"type:uuid;index"`
	BuyerPhone  string
	SellerID    uuid.UUID `gorm:"type:uuid;index"`

	Items      datatypes.JSON `gorm:"type:jsonb"`
	TotalPaise int64

	IsPaid        bool
	PaymentStatus int
	Status        int `gorm:"index"`

	Pickup       PickupDTO       `gorm:"embedded;embeddedPrefix:pickup_"`
	Assignment   AssignmentDTO   `gorm:"embedded;embeddedPrefix:assignment_"`
	Delivery     DeliveryDTO     `gorm:"embedded;embeddedPrefix:delivery_"`
	Cancellation CancellationDTO `gorm:"embedded;embeddedPrefix:cancellation_"`
	Return       ReturnDTO       `gorm:"embedded;embeddedPrefix:return_"`
	PayoutMirror PayoutMirrorDTO `gorm:"embedded;embeddedPrefix:payout_"`

	Timeline datatypes.JSON `gorm:"type:jsonb"`
	Version  int
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PickupDTO is the embedded pickup handoff record.
type PickupDTO struct {
	IsCompleted bool
	CompletedAt *time.Time
	AgentID     *uuid.UUID `gorm:"type:uuid"`
	Notes       string
}

// AssignmentDTO is the embedded agent-assignment record. A cleared assignment
// persists as NULL agent and status zero.
type AssignmentDTO struct {
	AgentID     *uuid.UUID `gorm:"type:uuid;index"`
	Status      int
	AssignedAt  *time.Time
	RespondedAt *time.Time
}

// DeliveryDTO is the embedded delivery handoff record.
type DeliveryDTO struct {
	DeliveredAt       *time.Time `gorm:"index"`
	Latitude          *float64
	Longitude         *float64
	OtpVerificationID *uuid.UUID `gorm:"type:uuid"`
}

// CancellationDTO is the embedded cancellation record. CancelledAt is NULL
// for orders that were never cancelled.
type CancellationDTO struct {
	Actor       string
	Reason      string
	CancelledAt *time.Time
}

// ReturnDTO is the embedded return workflow record. Status zero means no
// return was ever requested; toDomain then restores a nil ReturnDetails.
type ReturnDTO struct {
	Status      int `gorm:"index"`
	Reason      string
	RequestedAt *time.Time
	ReviewedAt  *time.Time
	ReviewNote  string
	AgentID     *uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt  *time.Time
	RespondedAt *time.Time
	PickedUpAt  *time.Time
	PickupNotes string
	PickupLat   *float64
	PickupLng   *float64
	PickupOtpID *uuid.UUID `gorm:"type:uuid"`
	ReturnedAt  *time.Time
	DropNotes   string
	DropLat     *float64
	DropLng     *float64
	DropOtpID   *uuid.UUID `gorm:"type:uuid"`
	CompletedAt *time.Time
	FailureNote string
}

// PayoutMirrorDTO is the embedded order-side payout mirror.
type PayoutMirrorDTO struct {
	Processed  bool
	TransferID string
	Status     int
}

// itemDTO is the JSONB shape of one ordered line.
type itemDTO struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPricePaise int64  `json:"unitPricePaise"`
}

// timelineEntryDTO is the JSONB shape of one audit timeline line.
type timelineEntryDTO struct {
	Status string    `json:"status"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

func uuidPtrFromDomain(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func uuidPtrToDomain(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	restored, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

func geoPointFromDomain(point *kernel.GeoPoint) (lat, lng *float64) {
	if point == nil {
		return nil, nil
	}
	latitude := point.Latitude()
	longitude := point.Longitude()
	return &latitude, &longitude
}

func geoPointToDomain(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPricePaise: item.UnitPrice.Paise(),
		})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	timeline := make([]timelineEntryDTO, 0, len(aggregate.Timeline()))
	for _, entry := range aggregate.Timeline() {
		timeline = append(timeline, timelineEntryDTO{
			Status: entry.Status,
			Actor:  entry.Actor,
			Note:   entry.Note,
			At:     entry.At,
		})
	}
	timelineJSON, err := json.Marshal(timeline)
	if err != nil {
		return OrderDTO{}, err
	}

	pickup := aggregate.PickupRecord()
	assignment := aggregate.AssignmentRecord()
	delivery := aggregate.DeliveryRecord()
	deliveryLat, deliveryLng := geoPointFromDomain(delivery.Location())
	mirror := aggregate.PayoutMirror()

	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		OrderNumber:   aggregate.OrderNumber(),
		BuyerID:       aggregate.BuyerID().Bytes(),
		BuyerPhone:    aggregate.BuyerPhone().String(),
		SellerID:      aggregate.SellerID().Bytes(),
		Items:         itemsJSON,
		TotalPaise:    aggregate.Total().Paise(),
		IsPaid:        aggregate.IsPaid(),
		PaymentStatus: int(aggregate.PaymentStatus()),
		Status:        int(aggregate.Status()),
		Pickup: PickupDTO{
			IsCompleted: pickup.IsCompleted(),
			CompletedAt: pickup.CompletedAt(),
			AgentID:     uuidPtrFromDomain(pickup.AgentID()),
			Notes:       pickup.Notes(),
		},
		Assignment: AssignmentDTO{
			AgentID:     uuidPtrFromDomain(assignment.AgentID()),
			Status:      int(assignment.Status()),
			AssignedAt:  assignment.AssignedAt(),
			RespondedAt: assignment.RespondedAt(),
		},
		Delivery: DeliveryDTO{
			DeliveredAt:       delivery.DeliveredAt(),
			Latitude:          deliveryLat,
			Longitude:         deliveryLng,
			OtpVerificationID: uuidPtrFromDomain(delivery.OtpVerificationID()),
		},
		PayoutMirror: PayoutMirrorDTO{
			Processed:  mirror.Processed(),
			TransferID: mirror.TransferID(),
			Status:     int(mirror.Status()),
		},
		Timeline: timelineJSON,
		Version:  aggregate.Version(),
	}

	if cancellation := aggregate.CancellationRecord(); cancellation != nil {
		cancelledAt := cancellation.CancelledAt
		dto.Cancellation = CancellationDTO{
			Actor:       cancellation.Actor,
			Reason:      cancellation.Reason,
			CancelledAt: &cancelledAt,
		}
	}

	if details := aggregate.ReturnDetails(); details != nil {
		requestedAt := details.RequestedAt()
		pickupLat, pickupLng := geoPointFromDomain(details.PickupPoint())
		dropLat, dropLng := geoPointFromDomain(details.DropPoint())
		dto.Return = ReturnDTO{
			Status:      int(details.Status()),
			Reason:      details.Reason(),
			RequestedAt: &requestedAt,
			ReviewedAt:  details.ReviewedAt(),
			ReviewNote:  details.ReviewNote(),
			AgentID:     uuidPtrFromDomain(details.AgentID()),
			AssignedAt:  details.AssignedAt(),
			RespondedAt: details.RespondedAt(),
			PickedUpAt:  details.PickedUpAt(),
			PickupNotes: details.PickupNotes(),
			PickupLat:   pickupLat,
			PickupLng:   pickupLng,
			PickupOtpID: uuidPtrFromDomain(details.PickupOtpID()),
			ReturnedAt:  details.ReturnedAt(),
			DropNotes:   details.DropNotes(),
			DropLat:     dropLat,
			DropLng:     dropLng,
			DropOtpID:   uuidPtrFromDomain(details.DropOtpID()),
			CompletedAt: details.CompletedAt(),
			FailureNote: details.FailureNote(),
		}
	}

	return dto, nil
}

// toDomain converts a database DTO back to an order domain aggregate using
// RestoreOrder, reconstructing every embedded record.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	buyerPhone, err := kernel.NewPhone(dto.BuyerPhone)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalPaise)
	if err != nil {
		return nil, err
	}

	var itemDTOs []itemDTO
	if err = json.Unmarshal(dto.Items, &itemDTOs); err != nil {
		return nil, err
	}
	items := make([]order.Item, 0, len(itemDTOs))
	for _, item := range itemDTOs {
		unitPrice, priceErr := kernel.NewMoney(item.UnitPricePaise)
		if priceErr != nil {
			return nil, priceErr
		}
		items = append(items, order.Item{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}

	var timelineDTOs []timelineEntryDTO
	if len(dto.Timeline) > 0 {
		if err = json.Unmarshal(dto.Timeline, &timelineDTOs); err != nil {
			return nil, err
		}
	}
	timeline := make([]order.TimelineEntry, 0, len(timelineDTOs))
	for _, entry := range timelineDTOs {
		timeline = append(timeline, order.TimelineEntry{
			Status: entry.Status,
			Actor:  entry.Actor,
			Note:   entry.Note,
			At:     entry.At,
		})
	}

	pickupAgentID, err := uuidPtrToDomain(dto.Pickup.AgentID)
	if err != nil {
		return nil, err
	}
	pickup := order.RestorePickup(dto.Pickup.IsCompleted, dto.Pickup.CompletedAt, pickupAgentID, dto.Pickup.Notes)

	assignmentAgentID, err := uuidPtrToDomain(dto.Assignment.AgentID)
	if err != nil {
		return nil, err
	}
	assignment := order.RestoreAssignment(assignmentAgentID,
		order.AssignmentStatus(dto.Assignment.Status), dto.Assignment.AssignedAt, dto.Assignment.RespondedAt)

	deliveryLocation, err := geoPointToDomain(dto.Delivery.Latitude, dto.Delivery.Longitude)
	if err != nil {
		return nil, err
	}
	deliveryOtpID, err := uuidPtrToDomain(dto.Delivery.OtpVerificationID)
	if err != nil {
		return nil, err
	}
	delivery := order.RestoreDelivery(dto.Delivery.DeliveredAt, deliveryLocation, deliveryOtpID)

	var cancellation *order.Cancellation
	if dto.Cancellation.CancelledAt != nil {
		cancellation = &order.Cancellation{
			Actor:       dto.Cancellation.Actor,
			Reason:      dto.Cancellation.Reason,
			CancelledAt: *dto.Cancellation.CancelledAt,
		}
	}

	returnDetails, err := returnToDomain(dto.Return)
	if err != nil {
		return nil, err
	}

	mirror := order.RestorePayoutMirror(dto.PayoutMirror.Processed,
		dto.PayoutMirror.TransferID, payout.TransferStatus(dto.PayoutMirror.Status))

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		buyerID,
		buyerPhone,
		sellerID,
		items,
		total,
		dto.IsPaid,
		order.PaymentStatus(dto.PaymentStatus),
		order.Status(dto.Status),
		pickup,
		assignment,
		delivery,
		cancellation,
		returnDetails,
		mirror,
		timeline,
		dto.Version,
	)
}

func returnToDomain(dto ReturnDTO) (*order.ReturnDetails, error) {
	if dto.Status == int(order.ReturnStatusUnknown) || dto.RequestedAt == nil {
		return nil, nil
	}

	agentID, err := uuidPtrToDomain(dto.AgentID)
	if err != nil {
		return nil, err
	}
	pickupPoint, err := geoPointToDomain(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	dropPoint, err := geoPointToDomain(dto.DropLat, dto.DropLng)
	if err != nil {
		return nil, err
	}
	pickupOtpID, err := uuidPtrToDomain(dto.PickupOtpID)
	if err != nil {
		return nil, err
	}
	dropOtpID, err := uuidPtrToDomain(dto.DropOtpID)
	if err != nil {
		return nil, err
	}

	return order.RestoreReturnDetails(
		order.ReturnStatus(dto.Status),
		dto.Reason,
		*dto.RequestedAt,
		dto.ReviewedAt,
		dto.ReviewNote,
		agentID,
		dto.AssignedAt,
		dto.RespondedAt,
		dto.PickedUpAt,
		dto.PickupNotes,
		pickupPoint,
		pickupOtpID,
		dto.ReturnedAt,
		dto.DropNotes,
		dropPoint,
		dropOtpID,
		dto.CompletedAt,
		dto.FailureNote,
	)
}
