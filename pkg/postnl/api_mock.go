package postnl

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// ValidUsername/ValidPassword are the credentials the mock accepts.
	// When empty, any non-empty pair is accepted.
	ValidUsername string
	ValidPassword string

	OnLogin      func(ctx context.Context, username, password string) (*Token, error)
	OnRefresh    func(ctx context.Context, token *Token) (*Token, error)
	OnGetInbox   func(ctx context.Context, token AccessToken) (*InboxResponse, error)
	OnGetPackage func(ctx context.Context, token AccessToken, key string) (*Package, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Login returns a mock token for accepted credentials.
func (m *MockAPIClient) Login(ctx context.Context, username, password string) (*Token, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewClientError("login", "MOCK_ERROR", "simulated API error").
			WithCause(ErrUnexpectedResponse)
	}

	if m.OnLogin != nil {
		return m.OnLogin(ctx, username, password)
	}

	if m.ValidUsername != "" && (username != m.ValidUsername || password != m.ValidPassword) {
		return nil, NewClientError("login", "INVALID_CREDENTIALS",
			"provider rejected username/password").
			WithCause(ErrInvalidCredentials)
	}

	return &Token{
		Access:  AccessToken("mock-access-" + uuid.New().String()[:8]),
		ID:      RefreshToken("mock-id-" + uuid.New().String()[:8]),
		Expires: time.Now().Add(time.Hour),
	}, nil
}

// Refresh returns a fresh mock token.
func (m *MockAPIClient) Refresh(ctx context.Context, token *Token) (*Token, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewClientError("refresh", "MOCK_ERROR", "simulated API error").
			WithCause(ErrUnauthorized)
	}

	if m.OnRefresh != nil {
		return m.OnRefresh(ctx, token)
	}

	return &Token{
		Access:  AccessToken("mock-access-" + uuid.New().String()[:8]),
		ID:      token.ID,
		Expires: time.Now().Add(time.Hour),
	}, nil
}

// GetInbox returns a small fixed inbox.
func (m *MockAPIClient) GetInbox(ctx context.Context, token AccessToken) (*InboxResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewClientError("get_packages", "MOCK_ERROR", "simulated API error").
			WithCause(ErrUnauthorized)
	}

	if m.OnGetInbox != nil {
		return m.OnGetInbox(ctx, token)
	}

	return &InboxResponse{
		Receiver: []Package{
			mockPackage("Webshop order", StatusEnroute),
			mockPackage("Birthday present", StatusDelivered),
		},
	}, nil
}

// GetPackage returns a mock package detail record.
func (m *MockAPIClient) GetPackage(ctx context.Context, token AccessToken, key string) (*Package, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewClientError("get_package", "MOCK_ERROR", "simulated API error").
			WithCause(ErrPackageNotFound)
	}

	if m.OnGetPackage != nil {
		return m.OnGetPackage(ctx, token, key)
	}

	pkg := mockPackage("Webshop order", StatusEnroute)
	pkg.Key = key
	return &pkg, nil
}

func mockPackage(title string, status DeliveryStatus) Package {
	key := uuid.New().String()
	barcode := "3SMOCK" + uuid.New().String()[:9]

	return Package{
		Key:        key,
		SortingKey: key,
		Title:      title,
		Recipient: Party{
			Type:      PartyRecipient,
			Formatted: "J. Jansen, 1234AB Amsterdam",
			Address: Address{
				Street:      "Dorpsstraat",
				HouseNumber: "1",
				PostalCode:  "1234AB",
				Town:        "Amsterdam",
				Country:     "NL",
			},
		},
		Status: Status{
			ShipmentType:    ShipmentParcel,
			Barcode:         barcode,
			Country:         "NL",
			PostalCode:      "1234AB",
			IsInternational: false,
			WebURL:          "https://jouw.postnl.nl/track-and-trace/" + barcode,
			Phase:           StatusPhase{Index: 2, Message: "Onderweg"},
			IsDelivered:     status == StatusDelivered,
			DeliveryStatus:  status,
			DeliveryLocation: DeliveryLocation{
				Header: "Bezorgadres",
				Type:   LocationRecipient,
			},
		},
		Settings: Settings{
			Title:            title,
			Box:              BoxReceiver,
			PushNotification: PushOff,
		},
	}
}

var _ APIClient = (*MockAPIClient)(nil)
