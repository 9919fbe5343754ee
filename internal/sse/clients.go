// Package sse keeps track of the browsers waiting for live reload events.
package sse

import (
	"sync"
)

// Client is one open event stream. An empty Slug watches every post.
type Client struct {
	Msg  chan string
	Slug string
}

func NewClient(slug string) *Client {
	return &Client{
		Msg:  make(chan string, 1),
		Slug: slug,
	}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to the clients watching slug. Slow clients miss the
// message instead of blocking the sender.
func (s *SSEClients) Broadcast(slug string, msg string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sent := 0
	for client := range s.clients {
		if client.Slug != "" && client.Slug != slug {
			continue
		}
		select {
		case client.Msg <- msg:
			sent++
		default:
		}
	}
	return sent
}
