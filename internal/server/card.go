package server

import (
	"encoding/json"
	"net/http"
)

// ServerCardPath is the well-known discovery path for the server card.
const ServerCardPath = "/.well-known/mcp/server-card.json"

// ServerCard describes the gateway for MCP client registries. Clients
// fetch it unauthenticated to learn how to connect and authenticate.
type ServerCard struct {
	Name           string             `json:"name"`
	DisplayName    string             `json:"displayName"`
	Version        string             `json:"version"`
	Description    string             `json:"description"`
	Vendor         string             `json:"vendor"`
	Homepage       string             `json:"homepage"`
	Icon           string             `json:"icon"`
	Documentation  string             `json:"documentation"`
	Capabilities   CardCapabilities   `json:"capabilities"`
	Authentication CardAuthentication `json:"authentication"`
	ConfigSchema   map[string]any     `json:"configSchema"`
}

// CardCapabilities lists the MCP feature surface the gateway exposes.
type CardCapabilities struct {
	Tools     bool `json:"tools"`
	Resources bool `json:"resources"`
	Prompts   bool `json:"prompts"`
}

// CardAuthentication describes the bearer credential clients must send.
type CardAuthentication struct {
	Type        string `json:"type"`
	Scheme      string `json:"scheme"`
	Description string `json:"description"`
	Header      string `json:"header"`
}

// BuildServerCard assembles the default server card for this gateway.
func BuildServerCard(name, version, description string) ServerCard {
	return ServerCard{
		Name:          name,
		DisplayName:   "Graforest MCP",
		Version:       version,
		Description:   description,
		Vendor:        "Graforest",
		Homepage:      "https://graforest.ai",
		Icon:          "https://graforest.ai/logo.svg",
		Documentation: "https://graforest.ai/docs",
		Capabilities: CardCapabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
		Authentication: CardAuthentication{
			Type:        "bearer",
			Scheme:      "Bearer",
			Description: "Graforest API Key (format: gf_sk_...)",
			Header:      "Authorization: Bearer gf_sk_...",
		},
		ConfigSchema: map[string]any{
			"type":     "object",
			"title":    "Graforest Configuration",
			"required": []string{},
			"properties": map[string]any{
				"apiKey": map[string]any{
					"type":        "string",
					"title":       "API Key",
					"description": "Your Graforest API key (get from https://graforest.ai/settings)",
					"default":     "",
					"x-from":      map[string]any{"header": "authorization"},
				},
			},
		},
	}
}

// ServerCardHandler serves the server card as JSON.
func ServerCardHandler(card ServerCard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(card)
	})
}
