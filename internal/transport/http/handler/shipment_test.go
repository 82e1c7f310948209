package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/handler"
	"github.com/ErlanBelekov/shiptrack/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fakeShipmentUsecase struct {
	create      func(ctx context.Context, input usecase.CreateShipmentInput, ownerID string, asAdmin bool) (*usecase.CreatedShipment, error)
	listByOwner func(ctx context.Context, userID string) ([]*domain.Shipment, error)
	track       func(ctx context.Context, trackingID string) (*usecase.TrackingResult, error)
	appendEvent func(ctx context.Context, actor domain.Identity, input usecase.AppendEventInput) (*domain.Shipment, *domain.ShipmentEvent, error)
	consume     func(ctx context.Context, trackingID, code string) (*domain.Shipment, error)
}

func (f *fakeShipmentUsecase) CreateShipment(ctx context.Context, input usecase.CreateShipmentInput, ownerID string, asAdmin bool) (*usecase.CreatedShipment, error) {
	return f.create(ctx, input, ownerID, asAdmin)
}

func (f *fakeShipmentUsecase) ListByOwner(ctx context.Context, userID string) ([]*domain.Shipment, error) {
	return f.listByOwner(ctx, userID)
}

func (f *fakeShipmentUsecase) Track(ctx context.Context, trackingID string) (*usecase.TrackingResult, error) {
	return f.track(ctx, trackingID)
}

func (f *fakeShipmentUsecase) AppendEvent(ctx context.Context, actor domain.Identity, input usecase.AppendEventInput) (*domain.Shipment, *domain.ShipmentEvent, error) {
	return f.appendEvent(ctx, actor, input)
}

func (f *fakeShipmentUsecase) ConsumeVerificationCode(ctx context.Context, trackingID, code string) (*domain.Shipment, error) {
	return f.consume(ctx, trackingID, code)
}

func newShipmentEngine(uc *fakeShipmentUsecase) *gin.Engine {
	h := handler.NewShipmentHandler(uc, discard())

	r := gin.New()
	r.GET("/api/shipments/track/:trackingId", h.Track)
	r.POST("/api/shipments/:trackingId/verify", h.Verify)
	authed := r.Group("/api/shipments", as(jane))
	authed.POST("", h.Create)
	authed.GET("", h.List)
	authed.POST("/:trackingId/event", h.AppendEvent)
	return r
}

func sampleShipment() *domain.Shipment {
	return &domain.Shipment{
		ID:               "33333333-3333-3333-3333-333333333333",
		TrackingID:       "FDXABC12345",
		SenderName:       "Acme",
		RecipientName:    "Bob",
		Origin:           "NYC",
		Destination:      "LA",
		Status:           domain.StatusCreated,
		VerificationCode: ptr("SECRET"),
		CreatedByID:      jane.ID,
	}
}

const createBody = `{"senderName":"Acme","recipientName":"Bob","origin":"NYC","destination":"LA","weightKg":2.5}`

// ---- Create ----

func TestCreateShipment_Returns201ForCaller(t *testing.T) {
	var gotOwner string
	var gotAdmin bool
	var gotWeight *float64
	uc := &fakeShipmentUsecase{create: func(_ context.Context, in usecase.CreateShipmentInput, ownerID string, asAdmin bool) (*usecase.CreatedShipment, error) {
		gotOwner, gotAdmin, gotWeight = ownerID, asAdmin, in.WeightKg
		return &usecase.CreatedShipment{Shipment: sampleShipment()}, nil
	}}

	w := do(newShipmentEngine(uc), http.MethodPost, "/api/shipments", createBody)
	wantStatus(t, w, http.StatusCreated)

	if gotOwner != jane.ID || gotAdmin {
		t.Errorf("created for (%q, admin=%v), want (%q, false)", gotOwner, gotAdmin, jane.ID)
	}
	if gotWeight == nil || *gotWeight != 2.5 {
		t.Errorf("weight = %v, want 2.5", gotWeight)
	}
	if strings.Contains(w.Body.String(), "SECRET") {
		t.Fatal("response leaks the verification code")
	}
	s := decode(t, w)["shipment"].(map[string]any)
	if s["trackingId"] != "FDXABC12345" || s["status"] != "Created" {
		t.Errorf("shipment = %v", s)
	}
}

func TestCreateShipment_BindErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing origin", `{"senderName":"Acme","recipientName":"Bob","destination":"LA"}`, "origin"},
		{"negative weight", `{"senderName":"Acme","recipientName":"Bob","origin":"NYC","destination":"LA","weightKg":-1}`, "weightKg"},
		{"weight as string", `{"senderName":"Acme","recipientName":"Bob","origin":"NYC","destination":"LA","weightKg":"heavy"}`, "weightKg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newShipmentEngine(&fakeShipmentUsecase{}), http.MethodPost, "/api/shipments", tt.body)
			wantStatus(t, w, http.StatusBadRequest)
			if got := decode(t, w)["field"]; got != tt.field {
				t.Errorf("field = %v, want %q", got, tt.field)
			}
		})
	}
}

func TestCreateShipment_UsecaseValidationError(t *testing.T) {
	uc := &fakeShipmentUsecase{create: func(_ context.Context, _ usecase.CreateShipmentInput, _ string, _ bool) (*usecase.CreatedShipment, error) {
		return nil, domain.NewValidationError("serviceId", "unknown shipping service")
	}}

	w := do(newShipmentEngine(uc), http.MethodPost, "/api/shipments", createBody)
	wantError(t, w, http.StatusBadRequest, "unknown shipping service")
}

// ---- List ----

func TestListShipments_EmptyIsArray(t *testing.T) {
	uc := &fakeShipmentUsecase{listByOwner: func(_ context.Context, _ string) ([]*domain.Shipment, error) {
		return nil, nil
	}}

	w := do(newShipmentEngine(uc), http.MethodGet, "/api/shipments", "")
	wantStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"shipments":[]`) {
		t.Errorf("body = %s, want an empty array", w.Body.String())
	}
}

// ---- Track ----

func TestTrack_Public(t *testing.T) {
	uc := &fakeShipmentUsecase{track: func(_ context.Context, id string) (*usecase.TrackingResult, error) {
		if id != "FDXABC12345" {
			return nil, domain.ErrShipmentNotFound
		}
		return &usecase.TrackingResult{
			Shipment: sampleShipment(),
			Events:   []*domain.ShipmentEvent{{ID: "e1", Status: domain.StatusCreated, Location: "NYC"}},
		}, nil
	}}
	r := newShipmentEngine(uc)

	w := do(r, http.MethodGet, "/api/shipments/track/FDXABC12345", "")
	wantStatus(t, w, http.StatusOK)
	events := decode(t, w)["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	w = do(r, http.MethodGet, "/api/shipments/track/FDXNOPE0000", "")
	wantError(t, w, http.StatusNotFound, "Shipment not found")
}

// ---- AppendEvent ----

func TestAppendEvent_PassesActor(t *testing.T) {
	var gotActor domain.Identity
	var gotInput usecase.AppendEventInput
	uc := &fakeShipmentUsecase{appendEvent: func(_ context.Context, actor domain.Identity, in usecase.AppendEventInput) (*domain.Shipment, *domain.ShipmentEvent, error) {
		gotActor, gotInput = actor, in
		s := sampleShipment()
		s.Status = domain.StatusInTransit
		return s, &domain.ShipmentEvent{ID: "e2", Status: domain.StatusInTransit, Location: in.Location}, nil
	}}

	w := do(newShipmentEngine(uc), http.MethodPost, "/api/shipments/FDXABC12345/event",
		`{"status":"In Transit","location":"Chicago"}`)
	wantStatus(t, w, http.StatusCreated)

	if gotActor.ID != jane.ID {
		t.Errorf("actor = %q, want %q", gotActor.ID, jane.ID)
	}
	if gotInput.TrackingID != "FDXABC12345" || gotInput.Location != "Chicago" {
		t.Errorf("input = %+v", gotInput)
	}
	body := decode(t, w)
	if body["shipment"].(map[string]any)["status"] != "In Transit" {
		t.Error("shipment status not updated in response")
	}
}

func TestAppendEvent_Forbidden(t *testing.T) {
	uc := &fakeShipmentUsecase{appendEvent: func(_ context.Context, _ domain.Identity, _ usecase.AppendEventInput) (*domain.Shipment, *domain.ShipmentEvent, error) {
		return nil, nil, domain.ErrForbidden
	}}

	w := do(newShipmentEngine(uc), http.MethodPost, "/api/shipments/FDXABC12345/event",
		`{"status":"Delivered","location":"LA"}`)
	wantStatus(t, w, http.StatusForbidden)
}

// ---- Verify ----

func TestVerifyShipment_CodeOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"wrong code", domain.ErrInvalidVerificationCode, http.StatusBadRequest, "Invalid verification code"},
		{"reused code", domain.ErrVerificationCodeUsed, http.StatusBadRequest, "Verification code has already been used"},
		{"unknown shipment", domain.ErrShipmentNotFound, http.StatusNotFound, "Shipment not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeShipmentUsecase{consume: func(_ context.Context, _, _ string) (*domain.Shipment, error) {
				return nil, tt.err
			}}
			w := do(newShipmentEngine(uc), http.MethodPost, "/api/shipments/FDXABC12345/verify", `{"code":"ABC123"}`)
			wantError(t, w, tt.code, tt.message)
		})
	}
}

func TestVerifyShipment_Success(t *testing.T) {
	uc := &fakeShipmentUsecase{consume: func(_ context.Context, _, _ string) (*domain.Shipment, error) {
		s := sampleShipment()
		s.VerificationCodeUsed = true
		return s, nil
	}}

	w := do(newShipmentEngine(uc), http.MethodPost, "/api/shipments/FDXABC12345/verify", `{"code":"SECRET"}`)
	wantStatus(t, w, http.StatusOK)
	if strings.Contains(w.Body.String(), `"verificationCode"`) {
		t.Error("response must not echo the code")
	}
	if decode(t, w)["shipment"].(map[string]any)["verificationCodeUsed"] != true {
		t.Error("verificationCodeUsed should be true")
	}
}
