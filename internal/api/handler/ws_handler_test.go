package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/meetme/internal/model"
	"github.com/Freeeeeet/meetme/internal/service"
	"github.com/Freeeeeet/meetme/internal/session"
)

type chatStore struct {
	mu    sync.Mutex
	saved []*model.ChatMessage
}

func (s *chatStore) Save(_ context.Context, m *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New()
	s.saved = append(s.saved, m)
	return nil
}

func (s *chatStore) History(_ context.Context, _, _ string) ([]*model.ChatMessage, error) {
	return nil, nil
}

type wsFixture struct {
	server   *httptest.Server
	notify   *session.Hub
	chatConn *session.Hub
}

func newWSFixture(t *testing.T, chat ChatService, chatConn *session.Hub) *wsFixture {
	t.Helper()

	f := &wsFixture{notify: session.NewHub(), chatConn: chatConn}
	h := NewWSHandler(f.notify, f.chatConn, chat, []string{"*"}, zap.NewNop())

	r := gin.New()
	r.GET("/ws/:user_id", h.Notifications)
	r.GET("/ws/chat/:user_id", h.Chat)
	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *wsFixture) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(data)
}

func TestWS_NotificationsEcho(t *testing.T) {
	f := newWSFixture(t, &mockChatService{}, session.NewHub())
	conn := f.dial(t, "/ws/s1@uni.edu")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	assert.Equal(t, "You said: hello", readText(t, conn))

	// после эха регистрация гарантированно завершена
	f.notify.SendTo("s1@uni.edu", []byte(`{"type":"booking"}`))
	assert.Equal(t, `{"type":"booking"}`, readText(t, conn))
}

func TestWS_EchoGoesOnlyToSendingConnection(t *testing.T) {
	f := newWSFixture(t, &mockChatService{}, session.NewHub())

	first := f.dial(t, "/ws/s1@uni.edu")
	require.NoError(t, first.WriteMessage(websocket.TextMessage, []byte("one")))
	assert.Equal(t, "You said: one", readText(t, first))

	second := f.dial(t, "/ws/s1@uni.edu")
	require.NoError(t, second.WriteMessage(websocket.TextMessage, []byte("two")))
	assert.Equal(t, "You said: two", readText(t, second))

	require.NoError(t, first.WriteMessage(websocket.TextMessage, []byte("three")))
	assert.Equal(t, "You said: three", readText(t, first))

	// метка доходит до обоих соединений; перед ней не должно быть чужого эха
	f.notify.SendTo("s1@uni.edu", []byte("marker"))
	assert.Equal(t, "marker", readText(t, first))
	assert.Equal(t, "marker", readText(t, second))
}

func TestWS_UnregistersOnClose(t *testing.T) {
	f := newWSFixture(t, &mockChatService{}, session.NewHub())
	conn := f.dial(t, "/ws/s1@uni.edu")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	readText(t, conn)
	require.True(t, f.notify.Connected("s1@uni.edu"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !f.notify.Connected("s1@uni.edu") }, 2*time.Second, 10*time.Millisecond)
}

func TestWS_ChatForwardsToReceiver(t *testing.T) {
	chatConn := session.NewHub()
	chat := service.NewChatService(&chatStore{}, chatConn, zap.NewNop())
	f := newWSFixture(t, chat, chatConn)

	receiver := f.dial(t, "/ws/chat/bob")
	require.Eventually(t, func() bool { return chatConn.Connected("bob") }, 2*time.Second, 10*time.Millisecond)

	sender := f.dial(t, "/ws/chat/alice")
	require.NoError(t, sender.WriteJSON(chatFrame{ReceiverID: "bob", Message: "hi bob"}))

	var got model.ChatMessage
	require.NoError(t, json.Unmarshal([]byte(readText(t, receiver)), &got))
	assert.Equal(t, "alice", got.SenderID)
	assert.Equal(t, "hi bob", got.Message)
}

func TestWS_ChatRejectsMalformedFrame(t *testing.T) {
	chatConn := session.NewHub()
	f := newWSFixture(t, &mockChatService{}, chatConn)

	conn := f.dial(t, "/ws/chat/alice")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var frame errorFrame
	require.NoError(t, json.Unmarshal([]byte(readText(t, conn)), &frame))
	assert.Equal(t, "invalid_request", frame.Code)
}

func TestWS_ChatErrorGoesOnlyToSendingConnection(t *testing.T) {
	chatConn := session.NewHub()
	f := newWSFixture(t, &mockChatService{}, chatConn)

	other := f.dial(t, "/ws/chat/alice")
	require.Eventually(t, func() bool { return chatConn.Connected("alice") }, 2*time.Second, 10*time.Millisecond)

	conn := f.dial(t, "/ws/chat/alice")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var frame errorFrame
	require.NoError(t, json.Unmarshal([]byte(readText(t, conn)), &frame))
	assert.Equal(t, "invalid_request", frame.Code)

	chatConn.SendTo("alice", []byte("marker"))
	assert.Equal(t, "marker", readText(t, other))
	assert.Equal(t, "marker", readText(t, conn))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/ws/x", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))
}
