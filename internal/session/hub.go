package session

import (
	"sync"
)

const clientBuffer = 16

// Client одно активное соединение пользователя
type Client struct {
	ID   string
	send chan []byte
}

// Send возвращает канал исходящих сообщений; закрывается при Unregister
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub реестр активных соединений процесса.
// У одного пользователя может быть несколько соединений.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // userID -> соединения
}

// NewHub создаёт пустой реестр
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register регистрирует новое соединение пользователя
func (h *Hub) Register(id string) *Client {
	c := &Client{ID: id, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[id]; !exists {
		h.clients[id] = make(map[*Client]struct{})
	}
	h.clients[id][c] = struct{}{}
	return c
}

// Unregister снимает соединение с учёта; повторный вызов безопасен
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, exists := h.clients[c.ID]
	if !exists {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.ID)
	}
}

// SendTo отправляет payload во все соединения пользователя и возвращает число доставленных.
// Переполненное соединение пропускается, отправитель никогда не блокируется.
func (h *Hub) SendTo(id string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[id] {
		select {
		case c.send <- payload:
			delivered++
		default:
		}
	}
	return delivered
}

// Reply отправляет payload только в указанное соединение.
// Возвращает false, если соединение уже снято с учёта или его буфер заполнен.
func (h *Hub) Reply(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c.ID][c]; !ok {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Connected проверяет есть ли у пользователя активные соединения
func (h *Hub) Connected(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[id]) > 0
}
