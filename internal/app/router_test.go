package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/assistant"
	"campusride/internal/clock"
	"campusride/internal/domain"
	"campusride/internal/handler"
	"campusride/internal/logging"
	"campusride/internal/repository/memory"
	"campusride/internal/service"
)

type testServer struct {
	router *gin.Engine
	clock  *clock.Fake
	repo   *memory.SessionRepository
}

func newTestServer(t *testing.T, state *domain.SessionState) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	logger := logging.Discard()
	clk := clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	spawn := func(f func()) { f() }

	repo := memory.NewSessionRepository()
	if state != nil {
		if err := repo.Save(ctx, service.LocalUserID, state); err != nil {
			t.Fatalf("seed state: %v", err)
		}
	}
	asst := assistant.NewGuarded(assistant.NewScripted(), time.Second, logger)

	notifier := service.NewNotificationService(service.LocalUserID, nil, clk, logger)
	profile := service.NewProfileService(ctx, repo, service.LocalUserID, logger)
	wallet := service.NewWalletService(profile, notifier, clk, logger)
	receipts := service.NewReceiptService(notifier, clk)
	chat := service.NewChatService(asst, clk, spawn, service.LocalUserID, service.ChatConfig{}, logger)
	rides := service.NewRideService(service.RideServiceDeps{
		Profile:   profile,
		Wallet:    wallet,
		Chat:      chat,
		Receipts:  receipts,
		Notifier:  notifier,
		Assistant: asst,
		Clock:     clk,
		Spawn:     spawn,
		Logger:    logger,
	})
	t.Cleanup(rides.Close)
	onboard := service.NewOnboardingService(profile, rides, notifier, clk, service.DefaultOnboardingTimings(), logger)

	rideHandler := handler.NewRideHandler(rides, wallet, chat, service.NewHistoryService(profile), receipts)
	router := NewRouter(RouterDeps{
		ProfileHandler:    handler.NewProfileHandler(profile, rides),
		WalletHandler:     handler.NewWalletHandler(wallet),
		RideHandler:       rideHandler,
		RiderHandler:      handler.NewRiderHandler(rides, rideHandler),
		ChatHandler:       handler.NewChatHandler(rides, chat),
		OnboardingHandler: handler.NewOnboardingHandler(onboard),
		Logger:            logger,
	})
	return &testServer{router: router, clock: clk, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// doStream sends body without a Content-Length, as a chunked client would.
func (s *testServer) doStream(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, io.MultiReader(strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) advanceUntil(t *testing.T, status domain.RideStatus) {
	t.Helper()
	for i := 0; i < 500; i++ {
		got := decode[handler.RideResponse](t, s.do(t, http.MethodGet, "/v1/rides/current", nil))
		if got.Ride.Status == status {
			return
		}
		s.clock.Advance(250 * time.Millisecond)
	}
	t.Fatalf("ride never reached %s", status)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	if w := s.do(t, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}
	w := s.do(t, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "campusride_") {
		t.Errorf("expected campusride metrics, got %d", w.Code)
	}
}

func TestRouter_Locations(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/v1/locations", nil)
	resp := decode[handler.LocationsResponse](t, w)
	if len(resp.Locations) != 8 {
		t.Errorf("expected 8 campus locations, got %d", len(resp.Locations))
	}
}

func TestRouter_PassengerBooking_InsufficientBalance(t *testing.T) {
	st := domain.DefaultSessionState()
	st.Balance = 10
	s := newTestServer(t, st)

	if w := s.do(t, http.MethodPut, "/v1/profile/role", handler.SelectRoleRequest{Role: "PASSENGER"}); w.Code != http.StatusOK {
		t.Fatalf("select role: %d %s", w.Code, w.Body.String())
	}
	w := s.do(t, http.MethodPut, "/v1/rides/route", handler.SelectRouteRequest{FromID: "1", ToID: "2"})
	if w.Code != http.StatusOK {
		t.Fatalf("select route: %d %s", w.Code, w.Body.String())
	}
	route := decode[handler.RideResponse](t, w)
	if route.Ride.Fare != 61 || route.Ride.DistanceKm != 2.5 {
		t.Errorf("expected scripted quote 61 / 2.5 km, got %v / %v", route.Ride.Fare, route.Ride.DistanceKm)
	}

	w = s.do(t, http.MethodPost, "/v1/rides/book", nil)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}
	errResp := decode[handler.ErrorResponse](t, w)
	if errResp.Action != "top_up" {
		t.Errorf("expected top_up action, got %+v", errResp)
	}

	if w := s.do(t, http.MethodPost, "/v1/wallet/topup", nil); w.Code != http.StatusCreated {
		t.Fatalf("top up: %d", w.Code)
	}
	w = s.do(t, http.MethodPost, "/v1/rides/book", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 after top-up, got %d %s", w.Code, w.Body.String())
	}
	if got := decode[handler.RideResponse](t, w); got.Ride.Status != domain.RideStatusSearching {
		t.Errorf("expected SEARCHING, got %s", got.Ride.Status)
	}

	s.clock.Advance(4 * time.Second)
	got := decode[handler.RideResponse](t, s.do(t, http.MethodGet, "/v1/rides/current", nil))
	if got.Ride.Status != domain.RideStatusAccepted || got.Ride.Rider == nil {
		t.Errorf("expected ACCEPTED with a rider, got %+v", got.Ride)
	}
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown role", http.MethodPut, "/v1/profile/role", handler.SelectRoleRequest{Role: "DRIVER"}, http.StatusBadRequest},
		{"rider before onboarding", http.MethodPut, "/v1/profile/role", handler.SelectRoleRequest{Role: "RIDER"}, http.StatusForbidden},
		{"chat without ride", http.MethodPost, "/v1/chat/messages", handler.SendMessageRequest{Text: "hi"}, http.StatusConflict},
		{"cancel while idle", http.MethodPost, "/v1/rides/cancel", nil, http.StatusConflict},
		{"no receipt yet", http.MethodGet, "/v1/rides/receipt", nil, http.StatusNotFound},
		{"wizard not started", http.MethodGet, "/v1/onboarding", nil, http.StatusNotFound},
		{"malformed body", http.MethodPut, "/v1/rides/route", "not an object", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(t, tt.method, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_UnknownLocation(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPut, "/v1/profile/role", handler.SelectRoleRequest{Role: "PASSENGER"})

	w := s.do(t, http.MethodPut, "/v1/rides/route", handler.SelectRouteRequest{FromID: "1", ToID: "42"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRouter_OnboardingToRiderDesk(t *testing.T) {
	s := newTestServer(t, nil)

	steps := []struct {
		method string
		path   string
		body   any
		want   int
	}{
		{http.MethodPost, "/v1/onboarding", nil, http.StatusCreated},
		{http.MethodPut, "/v1/onboarding/vehicle", handler.VehicleRequest{BikeModel: "Splendor Plus", PlateNumber: "DL 8S 4321"}, http.StatusOK},
		{http.MethodPost, "/v1/onboarding/next", nil, http.StatusOK},
		{http.MethodPut, "/v1/onboarding/avatar", handler.AvatarRequest{AvatarID: "av1"}, http.StatusOK},
		{http.MethodPost, "/v1/onboarding/next", nil, http.StatusOK},
		{http.MethodPost, "/v1/onboarding/verify", nil, http.StatusAccepted},
	}
	for _, st := range steps {
		if w := s.do(t, st.method, st.path, st.body); w.Code != st.want {
			t.Fatalf("%s %s: expected %d, got %d: %s", st.method, st.path, st.want, w.Code, w.Body.String())
		}
	}

	s.clock.Advance(4 * time.Second)
	wiz := decode[handler.WizardResponse](t, s.do(t, http.MethodGet, "/v1/onboarding", nil))
	if wiz.Wizard.Step != 4 {
		t.Fatalf("expected step 4 after the scan, got %d", wiz.Wizard.Step)
	}
	s.do(t, http.MethodPost, "/v1/onboarding/next", nil)

	w := s.do(t, http.MethodPost, "/v1/onboarding/complete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}
	if p := decode[domain.UserProfile](t, w); p.Role != domain.RoleRider || !p.HasCompletedOnboarding {
		t.Errorf("expected onboarded rider, got %+v", p)
	}

	if w := s.do(t, http.MethodPut, "/v1/rider/online", handler.SetOnlineRequest{Online: true}); w.Code != http.StatusOK {
		t.Fatalf("go online: %d", w.Code)
	}
	desk := decode[handler.RiderDeskResponse](t, s.do(t, http.MethodGet, "/v1/rider", nil))
	if len(desk.Requests) != 3 || !desk.Stats.Online {
		t.Errorf("expected 3 requests while online, got %+v", desk)
	}

	w = s.do(t, http.MethodPost, "/v1/rider/requests/req2/accept", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", w.Code, w.Body.String())
	}
	if got := decode[handler.RideResponse](t, w); got.Ride.Fare != 28 || len(got.Chat.Messages) != 1 {
		t.Errorf("expected fare 28 and the rider greeting, got %+v", got)
	}

	saved, err := s.repo.Load(context.Background(), service.LocalUserID)
	if err != nil || !saved.Onboarded || saved.BikeModel != "Splendor Plus" {
		t.Errorf("expected onboarding persisted, got %+v (%v)", saved, err)
	}
}

func TestRouter_NewUserWalletListsNoTransactions(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/v1/wallet", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get wallet: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"transactions":[]`) {
		t.Errorf("expected an empty transaction list, got %s", w.Body.String())
	}
}

func TestRouter_RiderFinish_ChunkedBody(t *testing.T) {
	st := domain.DefaultSessionState()
	st.Role = domain.RoleRider
	st.Onboarded = true
	st.BikeModel = "Splendor Plus"
	st.PlateNumber = "DL 8S 4321"
	s := newTestServer(t, st)

	if w := s.do(t, http.MethodPut, "/v1/rider/online", handler.SetOnlineRequest{Online: true}); w.Code != http.StatusOK {
		t.Fatalf("go online: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodPost, "/v1/rider/requests/req2/accept", nil); w.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", w.Code, w.Body.String())
	}
	s.advanceUntil(t, domain.RideStatusArrived)
	if w := s.do(t, http.MethodPost, "/v1/rides/board", nil); w.Code != http.StatusOK {
		t.Fatalf("board: %d %s", w.Code, w.Body.String())
	}
	s.advanceUntil(t, domain.RideStatusCompleted)

	w := s.doStream(t, http.MethodPost, "/v1/rides/finish", `{"rating":5,"feedback":"on time"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected the chunked rating to be read, got %d %s", w.Code, w.Body.String())
	}

	hist := decode[handler.HistoryResponse](t, s.do(t, http.MethodGet, "/v1/rides/history", nil))
	if len(hist.Rides) != 1 || hist.Rides[0].Rating != 5 {
		t.Errorf("expected one history entry rated 5, got %+v", hist.Rides)
	}
}

func TestRouter_PassengerFinish_EmptyBody(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPut, "/v1/profile/role", handler.SelectRoleRequest{Role: "PASSENGER"})
	s.do(t, http.MethodPut, "/v1/rides/route", handler.SelectRouteRequest{FromID: "1", ToID: "2"})
	if w := s.do(t, http.MethodPost, "/v1/rides/book", nil); w.Code != http.StatusAccepted {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	s.clock.Advance(4 * time.Second)
	s.advanceUntil(t, domain.RideStatusArrived)
	s.do(t, http.MethodPost, "/v1/rides/board", nil)
	s.advanceUntil(t, domain.RideStatusCompleted)

	w := s.doStream(t, http.MethodPost, "/v1/rides/finish", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected an unrated finish to succeed, got %d %s", w.Code, w.Body.String())
	}
	if got := decode[handler.RideResponse](t, w); got.Ride.Status != domain.RideStatusIdle || got.Balance != 189 {
		t.Errorf("expected IDLE with balance 189 after the 61 fare, got %s / %v", got.Ride.Status, got.Balance)
	}
}
