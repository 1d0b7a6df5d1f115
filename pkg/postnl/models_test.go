package postnl_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/postnl/pkg/postnl"
)

const packageFixture = `{
	"key": "PKG-0001",
	"sortingKey": "20240301-PKG-0001",
	"title": "Webshop order",
	"recipient": {
		"type": "Recipient",
		"firstName": "Jan",
		"lastName": "Jansen",
		"address": {
			"street": "Dorpsstraat",
			"houseNumber": "1",
			"postalCode": "1234AB",
			"town": "Amsterdam",
			"country": "NL"
		},
		"formatted": "J. Jansen, 1234AB Amsterdam"
	},
	"status": {
		"shipmentType": "Parcel",
		"barcode": "3STEST000000001",
		"country": "NL",
		"postalCode": "1234AB",
		"isInternational": false,
		"webUrl": "https://jouw.postnl.nl/track-and-trace/3STEST000000001",
		"phase": {"index": 4, "message": "Bezorgd"},
		"isDelivered": true,
		"deliveryStatus": "Delivered",
		"deliveryLocation": {
			"header": "Bezorgadres",
			"type": "Recipient",
			"address": {
				"street": "Dorpsstraat",
				"houseNumber": "1",
				"postalCode": "1234AB",
				"town": "Amsterdam",
				"country": "NL"
			},
			"formatted": "Dorpsstraat 1, Amsterdam"
		},
		"delivery": {
			"deliveryDate": "2024-03-01T14:22:00Z",
			"hasProofOfDelivery": true,
			"signatureUrl": "https://jouw.postnl.nl/signatures/abc"
		},
		"extraInformation": [],
		"returnEligibility": {
			"canReturnAtRetail": false,
			"pendingReturnAtRetail": false
		},
		"dimensions": "21 x 30 x 40,5 cm",
		"weight": "3 kg"
	},
	"settings": {
		"title": "Webshop order",
		"box": "Receiver",
		"pushNotification": "Off"
	}
}`

func TestPackage_Decode(t *testing.T) {
	var pkg postnl.Package
	require.NoError(t, json.Unmarshal([]byte(packageFixture), &pkg))

	assert.Equal(t, "PKG-0001", pkg.Key)
	assert.Equal(t, "Webshop order", pkg.Settings.Title)
	assert.Equal(t, postnl.StatusDelivered, pkg.Status.DeliveryStatus)
	assert.True(t, pkg.Status.DeliveryStatus.Known())
	assert.True(t, pkg.Status.IsDelivered)
	assert.Equal(t, postnl.ShipmentParcel, pkg.Status.ShipmentType)
	assert.Equal(t, postnl.BoxReceiver, pkg.Settings.Box)
	assert.Equal(t, postnl.PartyRecipient, pkg.Recipient.Type)

	require.NotNil(t, pkg.Status.Dimensions)
	assert.InDelta(t, 40.5, pkg.Status.Dimensions.Depth, 0.001)
	require.NotNil(t, pkg.Status.Weight)
	assert.InDelta(t, 3000, pkg.Status.Weight.Grams(), 0.001)

	require.NotNil(t, pkg.Status.Delivery.DeliveryDate)
	assert.True(t, pkg.Status.Delivery.HasProofOfDelivery)
}

func TestPackage_UnknownDeliveryStatus(t *testing.T) {
	fixture := `{
		"key": "PKG-0002",
		"title": "Mystery parcel",
		"recipient": {"type": "Recipient", "address": {}, "formatted": ""},
		"status": {
			"shipmentType": "Parcel",
			"deliveryStatus": "teleported",
			"phase": {"index": 1, "message": ""},
			"deliveryLocation": {"header": "", "type": "Recipient", "address": {}, "formatted": ""},
			"delivery": {"hasProofOfDelivery": false},
			"returnEligibility": {"canReturnAtRetail": false, "pendingReturnAtRetail": false}
		},
		"settings": {"title": "Mystery parcel", "box": "Receiver", "pushNotification": "Off"}
	}`

	var pkg postnl.Package
	require.NoError(t, json.Unmarshal([]byte(fixture), &pkg))

	// Unrecognized provider values decode into the raw string, not an error.
	assert.Equal(t, postnl.DeliveryStatus("teleported"), pkg.Status.DeliveryStatus)
	assert.False(t, pkg.Status.DeliveryStatus.Known())
}

func TestPackage_MissingKey(t *testing.T) {
	fixture := `{"title": "No key", "settings": {"title": "No key"}}`

	var pkg postnl.Package
	err := json.Unmarshal([]byte(fixture), &pkg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key")
}

func TestInboxResponse_Decode(t *testing.T) {
	fixture := `{"receiver": [` + packageFixture + `], "sender": [], "orders": []}`

	var inbox postnl.InboxResponse
	require.NoError(t, json.Unmarshal([]byte(fixture), &inbox))
	require.Len(t, inbox.Receiver, 1)
	assert.Equal(t, "PKG-0001", inbox.Receiver[0].Key)
	assert.Empty(t, inbox.Sender)
}

func TestDeliveryStatus_Known(t *testing.T) {
	known := []postnl.DeliveryStatus{
		postnl.StatusDelivered,
		postnl.StatusInTransit,
		postnl.StatusEnroute,
		postnl.StatusEnrouteSpecific,
		postnl.StatusDeliveredAtPickup,
		postnl.StatusEnrouteWholeDayOrUnspecified,
	}
	for _, s := range known {
		assert.True(t, s.Known(), string(s))
	}

	assert.False(t, postnl.DeliveryStatus("").Known())
	assert.False(t, postnl.DeliveryStatus("Teleported").Known())
}
