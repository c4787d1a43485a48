package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"pbm-backend/internal/auth"
	"pbm-backend/internal/config"
	"pbm-backend/internal/handlers"
	"pbm-backend/internal/health"
	"pbm-backend/internal/idcard"
	"pbm-backend/internal/live"
	"pbm-backend/internal/middleware"
	"pbm-backend/internal/models"
	"pbm-backend/internal/repositories"
	"pbm-backend/internal/services"
)

// newTestServer wires the full router the way main does, with the memory
// stores standing in for Postgres. Routes are exercised through the whole
// middleware chain, not handler by handler.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	members := repositories.NewMemoryMemberStore()
	blobs := services.NewMemoryBlobStore()

	membership := services.NewMembershipService(members, repositories.NewMemoryCounterStore(), blobs,
		config.MembershipConfig{Prefix: "PBM", MaxRetries: 3})

	renderer, err := idcard.NewRenderer(&config.Config{
		Cards: config.CardsConfig{WidthMM: 105, HeightMM: 74, QREnabled: true},
		Branding: config.BrandingConfig{
			OrgName:       "Pasumai Bharatham Makkal Katchi",
			RulesHeading:  "Membership Rules",
			NoticeLine1:   "This card is the property of the organization.",
			NoticeLine2:   "Report loss to the district office.",
			SignCaption:   "State Secretary",
			SealCaption:   "OFFICIAL",
			DarkColorHex:  "#0F7A3E",
			LightColorHex: "#5FB48C",
		},
		Verify: config.VerifyConfig{BaseURL: "http://localhost:8080"},
	})
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
	})

	hub := live.NewHub(nil)
	go hub.Run()

	memberHandler := handlers.NewMemberHandler(
		membership,
		services.NewCardService(members, blobs, renderer),
		services.NewVerificationService(members, "PBM"),
		repositories.NewMemoryDistrictStore("Chennai", "Madurai"),
		nil,
		hub,
	)
	authHandler := handlers.NewAuthHandler(
		services.NewAdminService(repositories.NewMemoryAdminStore(), jwtManager))
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(nil))

	router := NewRouter(
		memberHandler,
		authHandler,
		healthHandler,
		middleware.NewAuthMiddleware(jwtManager),
		middleware.NewRequestLogger(nil),
		hub,
		"",
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func registerThroughServer(t *testing.T, server *httptest.Server, mobile string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range map[string]string{
		"name":        "Test User",
		"mobile":      mobile,
		"district":    "Chennai",
		"blood_group": "O+",
		"age":         "30",
	} {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	resp, err := server.Client().Post(server.URL+"/register", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestRouterServesThroughMiddlewareChain(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/districts")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

// The live feed must survive the full middleware chain: the access log's
// response wrapper has to pass the connection hijack through for the
// websocket handshake to complete.
func TestLiveFeedUpgradesThroughMiddlewareChain(t *testing.T) {
	server := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/admin/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "websocket handshake failed")
	defer conn.Close()
	require.Equal(t, stdhttp.StatusSwitchingProtocols, resp.StatusCode)

	// Let the hub pick up the client before triggering a broadcast.
	time.Sleep(100 * time.Millisecond)

	registerThroughServer(t, server, "9000000001")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event models.RegistrationEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	require.Equal(t, "Test User", event.Name)
	require.Equal(t, "Chennai", event.District)
	require.Regexp(t, `^PBM-\d{4}-\d{6}$`, event.MembershipNo)
}
