// Package identity provides simple example types for documentation.
package identity

// [snippet:types]
type LookupRequest struct {
	Medium  string `wire:"path"`
	Address string `wire:"path"`
	Pepper  string `wire:"query,name=lookup_pepper"`
}

type LookupResponse struct {
	UserID string `json:"mxid"`
}

type StoreInviteRequest struct {
	Medium    string `json:"medium" validate:"required"`
	Address   string `json:"address" validate:"required"`
	RoomID    string `json:"room_id" validate:"required"`
	Sender    string `json:"sender" validate:"required"`
	RoomAlias string `json:"room_alias,omitempty"`
}

type StoreInviteResponse struct {
	Token       string   `json:"token"`
	PublicKeys  []string `json:"public_keys"`
	DisplayName string   `json:"display_name"`
}

// [/snippet:types]
