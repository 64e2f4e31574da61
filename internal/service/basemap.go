package service

import (
	"fmt"
	"strings"
	"sync"
)

// BasemapService is an in-memory, ordered registry of tile layers.
// The first registered layer is the default basemap.
type BasemapService struct {
	mu     sync.RWMutex
	order  []string
	layers map[string]TileLayer
}

// NewBasemapService creates an empty registry.
func NewBasemapService() *BasemapService {
	return &BasemapService{layers: make(map[string]TileLayer)}
}

// Register adds a tile layer. The ID is derived from the name when empty.
func (s *BasemapService) Register(layer TileLayer) (TileLayer, error) {
	if layer.Name == "" {
		return TileLayer{}, fmt.Errorf("basemap name is required")
	}
	if layer.URL == "" {
		return TileLayer{}, fmt.Errorf("basemap %q: url is required", layer.Name)
	}
	if layer.ID == "" {
		layer.ID = generateID(layer.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.layers[layer.ID]; exists {
		return TileLayer{}, fmt.Errorf("basemap with ID %q already exists", layer.ID)
	}
	s.layers[layer.ID] = layer
	s.order = append(s.order, layer.ID)
	return layer, nil
}

// List returns the basemaps in registration order.
func (s *BasemapService) List() []TileLayer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TileLayer, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.layers[id])
	}
	return result
}

// Get returns a basemap by ID.
func (s *BasemapService) Get(id string) (TileLayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layer, ok := s.layers[id]
	return layer, ok
}

// Default returns the first registered basemap.
func (s *BasemapService) Default() (TileLayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return TileLayer{}, false
	}
	return s.layers[s.order[0]], true
}

// generateID creates a URL-safe ID from a name.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	var result strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
