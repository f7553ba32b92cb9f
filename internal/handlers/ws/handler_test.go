package ws_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/roomserver/internal/auth"
	mockauth "github.com/KirkDiggler/roomserver/internal/auth/mock"
	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
	"github.com/KirkDiggler/roomserver/internal/handlers/ws"
	"github.com/KirkDiggler/roomserver/internal/protocol"
	"github.com/KirkDiggler/roomserver/internal/services"
	"github.com/KirkDiggler/roomserver/internal/services/room"
	mockroom "github.com/KirkDiggler/roomserver/internal/services/room/mock"
)

const readTimeout = 2 * time.Second

var jwtConfig = &auth.JWTConfig{Secret: []byte("handler-test-secret"), Issuer: "roomserver"}

type client struct {
	t    *testing.T
	conn *websocket.Conn
	seq  int64
}

func dial(t *testing.T, serverURL string) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn}
}

// send writes a request and returns the seq it was sent with
func (c *client) send(op string, data any) int64 {
	c.t.Helper()
	c.seq++
	frame, err := protocol.Encode(op, c.seq, time.Now(), data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, frame))
	return c.seq
}

func (c *client) sendRaw(raw string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

// next reads frames until one with op arrives
func (c *client) next(op string) protocol.Envelope {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	for {
		_, raw, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", op)
		var env protocol.Envelope
		require.NoError(c.t, json.Unmarshal(raw, &env))
		if env.Op == op {
			return env
		}
	}
}

// closed reads until the server closes the socket and returns the close
// frame it sent
func (c *client) closed() *websocket.CloseError {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		var closeErr *websocket.CloseError
		require.True(c.t, errors.As(err, &closeErr), "expected a close frame, got %v", err)
		return closeErr
	}
}

func decode[T any](t *testing.T, env protocol.Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func token(t *testing.T, userID string, roles ...entities.Role) string {
	t.Helper()
	tok, err := auth.Mint(jwtConfig, entities.Identity{
		UserID:   userID,
		Username: "user " + userID,
		Roles:    append([]entities.Role{entities.RoleUser}, roles...),
	}, time.Hour)
	require.NoError(t, err)
	return tok
}

type HandlerTestSuite struct {
	suite.Suite
	provider *services.Provider
	handler  *ws.Handler
	server   *httptest.Server
}

func (s *HandlerTestSuite) SetupTest() {
	s.provider = services.NewProvider(&services.ProviderConfig{
		OriginID:      "instance-test",
		DefaultRoomID: "lobby",
	})
	s.handler = ws.NewHandler(&ws.HandlerConfig{
		RoomService:  s.provider.RoomService,
		Verifier:     auth.NewJWTVerifier(jwtConfig),
		MaxMalformed: 3,
	})
	s.server = httptest.NewServer(ws.NewMux(s.handler))
}

func (s *HandlerTestSuite) TearDownTest() {
	s.handler.Shutdown()
	s.server.Close()
	s.NoError(s.provider.Close())
}

// join dials and authenticates, returning the client and its snapshot
func (s *HandlerTestSuite) join(userID string, roles ...entities.Role) (*client, protocol.AuthOK) {
	c := dial(s.T(), s.server.URL)
	c.send(protocol.OpAuth, protocol.Auth{Token: token(s.T(), userID, roles...)})
	return c, decode[protocol.AuthOK](s.T(), c.next(protocol.OpAuthOK))
}

func (s *HandlerTestSuite) TestAuth_SendsSnapshot() {
	c := dial(s.T(), s.server.URL)
	seq := c.send(protocol.OpAuth, protocol.Auth{Token: token(s.T(), "u1")})

	env := c.next(protocol.OpAuthOK)
	s.Equal(seq, env.Seq)

	snap := decode[protocol.AuthOK](s.T(), env)
	s.Equal("u1", snap.User.UserID)
	s.Equal("user u1", snap.User.Username)
	s.Equal("lobby", snap.Room.ID)
	s.Equal(5, snap.User.X)
	s.Equal(0, snap.User.Y)
	s.Positive(snap.Room.RoomSeq)
	s.Require().Len(snap.Occupants, 1)
	s.Equal("u1", snap.Occupants[0].UserID)
}

func (s *HandlerTestSuite) TestAuth_InvalidTokenCloses() {
	c := dial(s.T(), s.server.URL)
	c.send(protocol.OpAuth, protocol.Auth{Token: "not-a-token"})

	c.next(protocol.OpErrAuthInvalid)
	s.Equal(websocket.ClosePolicyViolation, c.closed().Code)
}

func (s *HandlerTestSuite) TestAuth_Required() {
	c := dial(s.T(), s.server.URL)

	seq := c.send(protocol.OpMove, map[string]int{"x": 1, "y": 1})
	env := c.next(protocol.OpErrNotAuthenticated)
	s.Equal(seq, env.Seq)

	// ping is open before auth
	seq = c.send(protocol.OpPing, nil)
	s.Equal(seq, c.next(protocol.OpPong).Seq)
}

func (s *HandlerTestSuite) TestAuth_Twice() {
	c, _ := s.join("u1")

	c.send(protocol.OpAuth, protocol.Auth{Token: token(s.T(), "u2")})
	c.next(protocol.OpErrAlreadyAuthenticated)

	seq := c.send(protocol.OpPing, nil)
	s.Equal(seq, c.next(protocol.OpPong).Seq)
}

func (s *HandlerTestSuite) TestMove() {
	c, snap := s.join("u1")

	seq := c.send(protocol.OpMove, map[string]int{"x": 3, "y": 2})
	env := c.next(protocol.OpMoveOK)
	s.Equal(seq, env.Seq)
	ok := decode[protocol.MoveOK](s.T(), env)
	s.Equal(3, ok.X)
	s.Equal(2, ok.Y)
	s.Equal(snap.Room.RoomSeq+1, ok.RoomSeq)

	// Odd rows are one tile short
	seq = c.send(protocol.OpMove, map[string]int{"x": 10, "y": 1})
	env = c.next(protocol.OpMoveErr)
	s.Equal(seq, env.Seq)
	rejected := decode[protocol.MoveErr](s.T(), env)
	s.Equal(protocol.MoveInvalidTile, rejected.Code)
	s.Equal(3, rejected.X)
	s.Equal(2, rejected.Y)
	s.Equal(ok.RoomSeq, rejected.RoomSeq)
}

func (s *HandlerTestSuite) TestMove_MissingCoordinates() {
	c, _ := s.join("u1")

	c.send(protocol.OpMove, map[string]int{"x": 3})
	c.next(protocol.OpErrValidation)

	// Invalid payloads do not count as malformed frames
	for i := 0; i < 4; i++ {
		c.send(protocol.OpMove, map[string]int{"y": 3})
		c.next(protocol.OpErrValidation)
	}
	c.send(protocol.OpPing, nil)
	c.next(protocol.OpPong)
}

func (s *HandlerTestSuite) TestMove_BroadcastsToOthers() {
	a, _ := s.join("a")
	b, _ := s.join("b")

	joined := decode[protocol.OccupantJoined](s.T(), a.next(protocol.OpOccupantJoined))
	s.Equal("b", joined.Occupant.UserID)

	a.send(protocol.OpMove, map[string]int{"x": 0, "y": 0})
	ok := decode[protocol.MoveOK](s.T(), a.next(protocol.OpMoveOK))

	env := b.next(protocol.OpOccupantMoved)
	s.Zero(env.Seq)
	moved := decode[protocol.OccupantMoved](s.T(), env)
	s.Equal("a", moved.UserID)
	s.Equal(0, moved.X)
	s.Equal(ok.RoomSeq, moved.RoomSeq)
}

func (s *HandlerTestSuite) TestChat() {
	a, _ := s.join("a")
	b, _ := s.join("b")

	seq := a.send(protocol.OpChatSend, protocol.ChatSend{Body: "  hello  "})
	env := a.next(protocol.OpChatOK)
	s.Equal(seq, env.Seq)
	ok := decode[protocol.ChatOK](s.T(), env)
	s.Equal("hello", ok.Message.Body)
	s.Equal("a", ok.Message.UserID)

	pushed := decode[protocol.ChatNew](s.T(), b.next(protocol.OpChatNew))
	s.Equal(ok.Message.ID, pushed.Message.ID)
	s.Equal(ok.RoomSeq, pushed.RoomSeq)

	a.send(protocol.OpChatSend, protocol.ChatSend{Body: "   "})
	a.next(protocol.OpErrChatPayload)
}

func (s *HandlerTestSuite) TestLeave_BroadcastsOnDisconnect() {
	a, _ := s.join("a")
	b, _ := s.join("b")
	a.next(protocol.OpOccupantJoined)

	s.Require().NoError(b.conn.Close())

	left := decode[protocol.OccupantLeft](s.T(), a.next(protocol.OpOccupantLeft))
	s.Equal("b", left.UserID)
}

func (s *HandlerTestSuite) TestMalformedFrames_Disconnect() {
	c, _ := s.join("u1")

	c.sendRaw("{not json")
	env := c.next(protocol.OpErrProtocol)
	s.Equal(protocol.ProtocolMalformed, decode[protocol.ErrorReply](s.T(), env).Code)
	c.send("teleport", nil)
	env = c.next(protocol.OpErrProtocol)
	s.Equal(protocol.ProtocolUnknownOp, decode[protocol.ErrorReply](s.T(), env).Code)

	// A real request resets the count
	c.send(protocol.OpMove, map[string]int{"x": 3, "y": 2})
	c.next(protocol.OpMoveOK)

	c.sendRaw("[]")
	c.next(protocol.OpErrProtocol)
	c.sendRaw(`{"seq":4}`)
	c.next(protocol.OpErrProtocol)
	c.sendRaw("{not json")
	c.next(protocol.OpErrProtocol)

	s.Equal(websocket.CloseProtocolError, c.closed().Code)
}

func (s *HandlerTestSuite) TestMalformedFrames_PingDoesNotReset() {
	c, _ := s.join("u1")

	for i := 0; i < 2; i++ {
		c.sendRaw("{not json")
		c.next(protocol.OpErrProtocol)
		c.send(protocol.OpPing, nil)
		c.next(protocol.OpPong)
	}
	c.sendRaw("{not json")
	c.next(protocol.OpErrProtocol)

	s.Equal(websocket.CloseProtocolError, c.closed().Code)
}

func (s *HandlerTestSuite) TestAdmin_Forbidden() {
	c, _ := s.join("u1")

	c.send(protocol.OpAdminTileSet, map[string]any{"x": 1, "y": 1, "locked": true})
	c.next(protocol.OpErrForbidden)
}

func (s *HandlerTestSuite) TestAdmin_SpawnAndPickup() {
	admin, _ := s.join("admin", entities.RoleAdmin)
	player, _ := s.join("player")

	admin.send(protocol.OpAdminItemSpawn, map[string]any{"name": "Lamp", "kind": "prop", "x": 2, "y": 2})
	spawned := decode[protocol.ItemSpawned](s.T(), admin.next(protocol.OpAdminItemOK))
	s.Equal("Lamp", spawned.Item.Name)

	pushed := decode[protocol.ItemSpawned](s.T(), player.next(protocol.OpItemSpawned))
	s.Equal(spawned.Item.ID, pushed.Item.ID)

	player.send(protocol.OpItemPickup, protocol.ItemPickup{ItemID: spawned.Item.ID})
	rejected := decode[protocol.PickupErr](s.T(), player.next(protocol.OpItemPickupErr))
	s.Equal(protocol.PickupNotOnTile, rejected.Code)

	player.send(protocol.OpMove, map[string]int{"x": 2, "y": 2})
	player.next(protocol.OpMoveOK)

	seq := player.send(protocol.OpItemPickup, protocol.ItemPickup{ItemID: spawned.Item.ID})
	env := player.next(protocol.OpItemPickupOK)
	s.Equal(seq, env.Seq)
	ok := decode[protocol.PickupOK](s.T(), env)
	s.Equal(spawned.Item.ID, ok.Item.SourceItemID)

	removed := decode[protocol.ItemRemoved](s.T(), admin.next(protocol.OpItemRemoved))
	s.Equal(spawned.Item.ID, removed.ItemID)
	s.Equal("player", removed.ClaimedBy)
	s.Equal(ok.RoomSeq, removed.RoomSeq)

	player.send(protocol.OpItemPickup, protocol.ItemPickup{ItemID: spawned.Item.ID})
	again := decode[protocol.PickupErr](s.T(), player.next(protocol.OpItemPickupErr))
	s.Equal(protocol.PickupAlreadyPickedUp, again.Code)

	player.send(protocol.OpItemPickup, protocol.ItemPickup{})
	invalid := decode[protocol.PickupErr](s.T(), player.next(protocol.OpItemPickupErr))
	s.Equal(protocol.PickupValidationFailed, invalid.Code)
}

func (s *HandlerTestSuite) TestAdmin_Validation() {
	admin, _ := s.join("admin", entities.RoleAdmin)

	admin.send(protocol.OpAdminTileSet, map[string]any{"x": 40, "y": 1, "locked": true})
	rejected := decode[protocol.AdminErr](s.T(), admin.next(protocol.OpAdminErr))
	s.Equal(protocol.AdminValidation, rejected.Code)
}

func (s *HandlerTestSuite) TestAdmin_LatencyTrace() {
	admin, _ := s.join("admin", entities.RoleAdmin)

	seq := admin.send(protocol.OpAdminLatencyTrace, map[string]string{"traceId": "t-1"})

	// The requester is in the room too, so the probe reaches it before the ack
	trace := decode[protocol.LatencyTraceView](s.T(), admin.next(protocol.OpLatencyTrace))
	s.Equal("t-1", trace.TraceID)
	s.Equal("instance-test", trace.OriginID)
	s.Equal("admin", trace.RequestedBy)

	s.Equal(seq, admin.next(protocol.OpAdminLatencyOK).Seq)
}

func (s *HandlerTestSuite) TestSessionReplaced() {
	first, _ := s.join("u1")
	_, snap := s.join("u1")

	s.Equal(websocket.ClosePolicyViolation, first.closed().Code)
	s.Len(snap.Occupants, 1)
}

func (s *HandlerTestSuite) TestShutdown_ClosesConnections() {
	c, _ := s.join("u1")

	s.handler.Shutdown()

	s.Equal(websocket.CloseGoingAway, c.closed().Code)
	s.Zero(s.handler.ConnectionCount())
}

func (s *HandlerTestSuite) TestUp() {
	resp, err := http.Get(s.server.URL + "/up")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("OK", string(body))

	resp, err = http.Post(s.server.URL+"/up", "text/plain", nil)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func TestHeartbeatTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := ws.NewHandler(&ws.HandlerConfig{
		RoomService:       mockroom.NewMockService(ctrl),
		Verifier:          mockauth.NewMockVerifier(ctrl),
		HeartbeatInterval: 50 * time.Millisecond,
	})
	server := httptest.NewServer(ws.NewMux(h))
	defer server.Close()

	c := dial(t, server.URL)
	closeErr := c.closed()
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "heartbeat timeout", closeErr.Text)
}

func TestHeartbeatTimeout_ExplicitTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := ws.NewHandler(&ws.HandlerConfig{
		RoomService:       mockroom.NewMockService(ctrl),
		Verifier:          mockauth.NewMockVerifier(ctrl),
		HeartbeatInterval: time.Minute,
		HeartbeatTimeout:  50 * time.Millisecond,
	})
	server := httptest.NewServer(ws.NewMux(h))
	defer server.Close()

	c := dial(t, server.URL)
	closeErr := c.closed()
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "heartbeat timeout", closeErr.Text)
}

func TestHeartbeatTimeout_NotifiesRoom(t *testing.T) {
	provider := services.NewProvider(&services.ProviderConfig{
		OriginID:      "instance-test",
		DefaultRoomID: "lobby",
	})
	defer provider.Close()
	h := ws.NewHandler(&ws.HandlerConfig{
		RoomService:       provider.RoomService,
		Verifier:          auth.NewJWTVerifier(jwtConfig),
		HeartbeatInterval: 100 * time.Millisecond,
	})
	server := httptest.NewServer(ws.NewMux(h))
	defer server.Close()
	defer h.Shutdown()

	active := dial(t, server.URL)
	active.send(protocol.OpAuth, protocol.Auth{Token: token(t, "active")})
	active.next(protocol.OpAuthOK)

	silent := dial(t, server.URL)
	silent.send(protocol.OpAuth, protocol.Auth{Token: token(t, "silent")})
	snap := decode[protocol.AuthOK](t, silent.next(protocol.OpAuthOK))

	// Keep the active client alive while the silent one times out
	stop := make(chan struct{})
	pinged := make(chan struct{})
	go func() {
		defer close(pinged)
		ticker := time.NewTicker(40 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				frame, _ := protocol.Encode(protocol.OpPing, 0, time.Now(), nil)
				if active.conn.WriteMessage(websocket.TextMessage, frame) != nil {
					return
				}
			}
		}
	}()
	defer func() {
		close(stop)
		<-pinged
	}()

	left := decode[protocol.OccupantLeft](t, active.next(protocol.OpOccupantLeft))
	assert.Equal(t, "silent", left.UserID)
	assert.Equal(t, snap.User.X, left.X)
	assert.Equal(t, snap.User.Y, left.Y)
	assert.Equal(t, "heartbeat timeout", silent.closed().Text)
}

func TestPersistFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	rooms := mockroom.NewMockService(ctrl)
	verifier := mockauth.NewMockVerifier(ctrl)

	identity := &entities.Identity{UserID: "u1", Username: "one", Roles: []entities.Role{entities.RoleUser}}
	verifier.EXPECT().Verify(gomock.Any(), "good").Return(identity, nil)
	rooms.EXPECT().Join(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, input *room.JoinInput) (*room.JoinResult, error) {
			assert.Equal(t, identity, input.Identity)
			return &room.JoinResult{
				Room:     entities.Room{ID: "lobby", Name: "Lobby", Rows: 12, Seq: 7},
				Occupant: entities.Occupant{UserID: "u1", Username: "one", Position: entities.Position{X: 5}},
			}, nil
		})
	rooms.EXPECT().Move(gomock.Any(), gomock.Any()).Return(&room.MoveResult{
		Code:     protocol.MovePersistFailed,
		Position: entities.Position{X: 5},
		RoomSeq:  7,
	}, apperrors.Unavailable(errors.New("redis down"), "failed to save occupant"))
	rooms.EXPECT().PostChat(gomock.Any(), gomock.Any()).Return(nil,
		apperrors.Unavailable(errors.New("redis down"), "failed to save chat message"))
	rooms.EXPECT().Leave(gomock.Any(), &room.LeaveInput{RoomID: "lobby", UserID: "u1", ConnID: "conn-1"}).Return(nil)

	h := ws.NewHandler(&ws.HandlerConfig{
		RoomService:   rooms,
		Verifier:      verifier,
		UUIDGenerator: fixedID("conn-1"),
	})
	server := httptest.NewServer(ws.NewMux(h))
	defer server.Close()

	c := dial(t, server.URL)
	c.send(protocol.OpAuth, protocol.Auth{Token: "good"})
	snap := decode[protocol.AuthOK](t, c.next(protocol.OpAuthOK))
	assert.Equal(t, int64(7), snap.Room.RoomSeq)

	c.send(protocol.OpMove, map[string]int{"x": 1, "y": 1})
	moveErr := decode[protocol.MoveErr](t, c.next(protocol.OpMoveErr))
	assert.Equal(t, protocol.MovePersistFailed, moveErr.Code)
	assert.Equal(t, 5, moveErr.X)
	assert.Equal(t, int64(7), moveErr.RoomSeq)

	c.send(protocol.OpChatSend, protocol.ChatSend{Body: "hi"})
	c.next(protocol.OpErrPersistFailed)

	require.NoError(t, c.conn.Close())
	h.Shutdown()
}

type fixedID string

func (f fixedID) New() string { return string(f) }
