package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

// ---- func-field fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, u *domain.User) (*domain.User, error)
	findByID    func(ctx context.Context, id string) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	list        func(ctx context.Context) ([]*domain.User, error)
	setAdmin    func(ctx context.Context, id string, isAdmin bool) (*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.create(ctx, u)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx)
}

func (r *fakeUserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	return r.setAdmin(ctx, id, isAdmin)
}

type fakeCodeRepo struct {
	create      func(ctx context.Context, vc *domain.VerificationCode) (*domain.VerificationCode, error)
	claim       func(ctx context.Context, userID, code string, channel domain.Channel, now time.Time) (*domain.User, error)
	delete      func(ctx context.Context, id string) error
	deleteStale func(ctx context.Context, cutoff time.Time) (int, error)
}

func (r *fakeCodeRepo) Create(ctx context.Context, vc *domain.VerificationCode) (*domain.VerificationCode, error) {
	return r.create(ctx, vc)
}

func (r *fakeCodeRepo) Claim(ctx context.Context, userID, code string, channel domain.Channel, now time.Time) (*domain.User, error) {
	return r.claim(ctx, userID, code, channel, now)
}

func (r *fakeCodeRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *fakeCodeRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	return r.deleteStale(ctx, cutoff)
}

type fakeServiceRepo struct {
	list    func(ctx context.Context) ([]*domain.ShippingService, error)
	getByID func(ctx context.Context, id string) (*domain.ShippingService, error)
}

func (r *fakeServiceRepo) List(ctx context.Context) ([]*domain.ShippingService, error) {
	return r.list(ctx)
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id string) (*domain.ShippingService, error) {
	return r.getByID(ctx, id)
}

type fakeSubscriptionRepo struct {
	create func(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	return r.create(ctx, s)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

type fakeIDs struct {
	trackingID       func() (string, error)
	verificationCode func() (string, error)
}

func (g *fakeIDs) TrackingID() (string, error)       { return g.trackingID() }
func (g *fakeIDs) VerificationCode() (string, error) { return g.verificationCode() }

// sequentialIDs hands out FDX00000001, FDX00000002, ... and a fixed code.
func sequentialIDs() *fakeIDs {
	var n int
	return &fakeIDs{
		trackingID: func() (string, error) {
			n++
			return fmt.Sprintf("FDX%08d", n), nil
		},
		verificationCode: func() (string, error) { return "ABC123", nil },
	}
}

// ---- in-memory shipment store ----

// memShipments keeps shipments and events in maps and follows the same
// contract as the postgres repository, including the status sync on append.
type memShipments struct {
	mu        sync.Mutex
	seq       int
	shipments map[string]*domain.Shipment // by tracking id
	events    map[string][]*domain.ShipmentEvent
	taken     map[string]bool // tracking ids that report a collision
}

func newMemShipments() *memShipments {
	return &memShipments{
		shipments: make(map[string]*domain.Shipment),
		events:    make(map[string][]*domain.ShipmentEvent),
		taken:     make(map[string]bool),
	}
}

func (m *memShipments) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memShipments) CreateWithEvent(_ context.Context, s *domain.Shipment, first *domain.ShipmentEvent) (*domain.Shipment, *domain.ShipmentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taken[s.TrackingID] || m.shipments[s.TrackingID] != nil {
		return nil, nil, domain.ErrTrackingIDTaken
	}
	cp := *s
	cp.ID = m.nextID("shp")
	cp.CreatedAt = time.Now()
	m.shipments[cp.TrackingID] = &cp

	ev := *first
	ev.ID = m.nextID("evt")
	ev.ShipmentID = cp.ID
	ev.Timestamp = time.Now()
	m.events[cp.ID] = append(m.events[cp.ID], &ev)

	out := cp
	return &out, &ev, nil
}

func (m *memShipments) GetByTrackingID(_ context.Context, trackingID string) (*domain.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[trackingID]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memShipments) ListByOwner(_ context.Context, userID string) ([]*domain.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Shipment
	for _, s := range m.shipments {
		if s.CreatedByID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memShipments) ListAll(_ context.Context) ([]*domain.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memShipments) AppendEvent(_ context.Context, trackingID string, ev *domain.ShipmentEvent, authorize func(*domain.Shipment) error) (*domain.Shipment, *domain.ShipmentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[trackingID]
	if !ok {
		return nil, nil, domain.ErrShipmentNotFound
	}
	if err := authorize(s); err != nil {
		return nil, nil, err
	}
	e := *ev
	e.ID = m.nextID("evt")
	e.ShipmentID = s.ID
	e.Timestamp = time.Now()
	m.events[s.ID] = append(m.events[s.ID], &e)
	s.Status = e.Status

	cp := *s
	return &cp, &e, nil
}

func (m *memShipments) ConsumeVerificationCode(_ context.Context, trackingID, code string) (*domain.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shipments[trackingID]
	switch {
	case !ok:
		return nil, domain.ErrShipmentNotFound
	case s.VerificationCode == nil || *s.VerificationCode != code:
		return nil, domain.ErrInvalidVerificationCode
	case s.VerificationCodeUsed:
		return nil, domain.ErrVerificationCodeUsed
	}
	s.VerificationCodeUsed = true
	cp := *s
	return &cp, nil
}

func (m *memShipments) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tid, s := range m.shipments {
		if s.ID == id {
			delete(m.events, id)
			delete(m.shipments, tid)
			return true, nil
		}
	}
	return false, nil
}

// ListByShipment makes memShipments double as the event repository.
func (m *memShipments) ListByShipment(_ context.Context, shipmentID string) ([]*domain.ShipmentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.events[shipmentID]
	out := make([]*domain.ShipmentEvent, len(list))
	for i, e := range list {
		out[len(list)-1-i] = e
	}
	return out, nil
}

// ---- helpers ----

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noServices() *fakeServiceRepo {
	return &fakeServiceRepo{
		getByID: func(_ context.Context, _ string) (*domain.ShippingService, error) {
			return nil, domain.ErrServiceNotFound
		},
	}
}

func ptr[T any](v T) *T { return &v }
