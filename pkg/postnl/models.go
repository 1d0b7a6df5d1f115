package postnl

import (
	"encoding/json"
	"fmt"
	"time"
)

// DeliveryStatus represents the provider-reported delivery state of a shipment.
//
// The set of values the provider emits is not fully documented; values not
// listed below still decode, carry the raw string, and report Known() == false.
type DeliveryStatus string

const (
	StatusDelivered                    DeliveryStatus = "Delivered"
	StatusInTransit                    DeliveryStatus = "InTransit"
	StatusEnroute                      DeliveryStatus = "Enroute"
	StatusEnrouteSpecific              DeliveryStatus = "EnrouteSpecific"
	StatusDeliveredAtPickup            DeliveryStatus = "DeliveredAtPickup"
	StatusEnrouteWholeDayOrUnspecified DeliveryStatus = "EnrouteWholeDayOrUnspecified"
)

// Known returns true if the status is one of the documented values.
func (s DeliveryStatus) Known() bool {
	switch s {
	case StatusDelivered, StatusInTransit, StatusEnroute, StatusEnrouteSpecific,
		StatusDeliveredAtPickup, StatusEnrouteWholeDayOrUnspecified:
		return true
	}
	return false
}

// ShipmentType represents the physical shipment category.
type ShipmentType string

const (
	ShipmentParcel          ShipmentType = "Parcel"
	ShipmentLetterboxParcel ShipmentType = "LetterboxParcel"
)

// BoxType indicates whether the package appears in the receiver or sender box.
type BoxType string

const (
	BoxReceiver BoxType = "Receiver"
	BoxSender   BoxType = "Sender"
)

// PartyType represents the role of a party on a shipment.
type PartyType string

const (
	PartyRecipient PartyType = "Recipient"
	PartySender    PartyType = "Sender"
	PartyReturn    PartyType = "Return"
	PartyRerouted  PartyType = "Rerouted"
)

// LocationType represents the kind of delivery location.
type LocationType string

const (
	LocationRecipient    LocationType = "Recipient"
	LocationServicePoint LocationType = "ServicePoint"
	LocationRerouted     LocationType = "Rerouted"
	LocationPostOffice   LocationType = "PostOffice"
)

// TimeFrameType represents how precise a delivery time frame is.
type TimeFrameType string

const (
	TimeFrameSpecific     TimeFrameType = "Specific"
	TimeFrameUnspecified  TimeFrameType = "Unspecified"
	TimeFrameOnlyFromTime TimeFrameType = "OnlyFromTime"
	TimeFrameWholeDay     TimeFrameType = "WholeDay"
)

// EnrouteType represents the confidence of an enroute estimate.
type EnrouteType string

const (
	EnrouteStandard  EnrouteType = "Standard"
	EnrouteTentative EnrouteType = "Tentative"
)

// PushStatus represents the push notification setting for a package.
type PushStatus string

const (
	PushUnavailable PushStatus = "Unavailable"
	PushOn          PushStatus = "On"
	PushOff         PushStatus = "Off"
)

// ReRouteAvailability represents why/when a reroute is available.
type ReRouteAvailability string

const (
	ReRouteAfterFirstAttempt ReRouteAvailability = "AvailableAfterFirstAttempt"
	ReRouteCustomerRelated   ReRouteAvailability = "CustomerRelated"
	ReRouteIncorrectStatus   ReRouteAvailability = "IncorrectStatus"
)

// Package is a tracked shipment. Key is stable and unique per physical
// shipment across fetches.
type Package struct {
	Key        string   `json:"key"`
	SortingKey string   `json:"sortingKey"`
	Title      string   `json:"title"`
	Sender     *Party   `json:"sender"`
	Recipient  Party    `json:"recipient"`
	Status     Status   `json:"status"`
	Settings   Settings `json:"settings"`
	Reroute    *ReRoute `json:"reroute"`
}

// rawPackage mirrors Package without methods so UnmarshalJSON can delegate.
type rawPackage Package

// UnmarshalJSON decodes a package and rejects records without a key.
func (p *Package) UnmarshalJSON(data []byte) error {
	var raw rawPackage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Key == "" {
		return fmt.Errorf("package record has no key")
	}
	*p = Package(raw)
	return nil
}

// Address represents a postal address.
type Address struct {
	IsMatched         bool    `json:"isMatched"`
	Street            string  `json:"street"`
	HouseNumber       string  `json:"houseNumber"`
	HouseNumberSuffix *string `json:"houseNumberSuffix"`
	PostalCode        string  `json:"postalCode"`
	Town              string  `json:"town"`
	Country           string  `json:"country"` // ISO 3166-1 alpha-2
	Formatted         *string `json:"formatted"`
}

// Party represents a sender or recipient on a shipment.
type Party struct {
	Type           PartyType `json:"type"`
	CompanyName    *string   `json:"companyName"`
	DepartmentName *string   `json:"departmentName"`
	LastName       *string   `json:"lastName"`
	MiddleName     *string   `json:"middleName"`
	FirstName      *string   `json:"firstName"`
	Email          *string   `json:"email"`
	Address        Address   `json:"address"`
	FullName       *string   `json:"fullName"`
	Formatted      string    `json:"formatted"`
}

// Status holds the full delivery status of a package.
type Status struct {
	ShipmentType      ShipmentType             `json:"shipmentType"`
	Barcode           string                   `json:"barcode"`
	Country           string                   `json:"country"`
	PostalCode        string                   `json:"postalCode"`
	IsInternational   bool                     `json:"isInternational"`
	WebURL            string                   `json:"webUrl"`
	Phase             StatusPhase              `json:"phase"`
	Enroute           *Enroute                 `json:"enroute"`
	IsDelivered       bool                     `json:"isDelivered"`
	DeliveryStatus    DeliveryStatus           `json:"deliveryStatus"`
	DeliveryLocation  DeliveryLocation         `json:"deliveryLocation"`
	Delivery          Delivery                 `json:"delivery"`
	ExtraInformation  []ExtraStatusInformation `json:"extraInformation"`
	ReturnEligibility ReturnEligibility        `json:"returnEligibility"`
	Dimensions        *Dimensions              `json:"dimensions"`
	Weight            *Weight                  `json:"weight"`
	Formatted         *FormattedStatus         `json:"formatted"`
}

// StatusPhase is the coarse delivery phase shown in the provider UI.
type StatusPhase struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Enroute describes an in-progress delivery trip.
type Enroute struct {
	TimeFrame       TimeFrame   `json:"timeframe"`
	Type            EnrouteType `json:"type"`
	TripInformation *string     `json:"tripInformation"`
}

// TimeFrame is a (possibly imprecise) delivery window.
type TimeFrame struct {
	PlannedDate        *time.Time    `json:"plannedDate"`
	PlannedFrom        *time.Time    `json:"plannedFrom"`
	PlannedTo          *time.Time    `json:"plannedTo"`
	Date               *time.Time    `json:"date"`
	From               *time.Time    `json:"from"`
	To                 *time.Time    `json:"to"`
	Type               TimeFrameType `json:"type"`
	Note               *string       `json:"note"`
	DeviationInMinutes int           `json:"deviationInMinutes"`
}

// DeliveryLocation is where the package is or will be delivered.
type DeliveryLocation struct {
	Header         string       `json:"header"`
	Type           LocationType `json:"type"`
	CompanyName    *string      `json:"companyName"`
	DepartmentName *string      `json:"departmentName"`
	LastName       *string      `json:"lastName"`
	MiddleName     *string      `json:"middleName"`
	FirstName      *string      `json:"firstName"`
	Email          *string      `json:"email"`
	Address        Address      `json:"address"`
	FullName       *string      `json:"fullName"`
	Formatted      string       `json:"formatted"`
}

// Delivery holds proof-of-delivery details once a package is delivered.
type Delivery struct {
	DeliveryDate       *time.Time `json:"deliveryDate"`
	HasProofOfDelivery bool       `json:"hasProofOfDelivery"`
	SignatureURL       *string    `json:"signatureUrl"`
	DeliveryAddress    *Address   `json:"deliveryAddress"`
}

// ReturnEligibility describes whether a package can be returned at retail.
type ReturnEligibility struct {
	CanReturnAtRetail     bool `json:"canReturnAtRetail"`
	PendingReturnAtRetail bool `json:"pendingReturnAtRetail"`
}

// ExtraStatusInformation is additional free-form status info.
type ExtraStatusInformation struct {
	Data ExtraStatusInformationData `json:"data"`
	Type string                     `json:"type"`
}

// ExtraStatusInformationData holds the text of an extra status entry.
type ExtraStatusInformationData struct {
	Text string `json:"text"`
}

// Settings holds the user's per-package settings.
type Settings struct {
	Title            string     `json:"title"`
	Box              BoxType    `json:"box"`
	PushNotification PushStatus `json:"pushNotification"`
}

// ReRoute describes whether and how a package can be rerouted.
type ReRoute struct {
	Available        bool                   `json:"available"`
	CurrentSelection *string                `json:"currentSelection"`
	Availability     ReRouteAvailability    `json:"availability"`
	Unavailability   *ReRouteUnavailability `json:"unavailability"`
}

// ReRouteUnavailability explains why a reroute is not available.
type ReRouteUnavailability struct {
	Text string  `json:"text"`
	Link *string `json:"link"`
}
