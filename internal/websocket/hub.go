package websocket

import (
	"encoding/json"
	"sync"
)

// BalanceUpdate is pushed to a company's subscribers after a posting
// commits, one update per account the posting touched.
type BalanceUpdate struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(companyID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[companyID] == nil {
		h.clients[companyID] = make(map[*Client]struct{})
	}
	h.clients[companyID][client] = struct{}{}
}

func (h *Hub) Unregister(companyID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[companyID] == nil {
		return
	}
	delete(h.clients[companyID], client)
	if len(h.clients[companyID]) == 0 {
		delete(h.clients, companyID)
	}
}

// BroadcastBalance fans an update out to every subscriber of the company.
// Slow clients are skipped rather than blocking the posting path.
func (h *Hub) BroadcastBalance(companyID string, update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[companyID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
