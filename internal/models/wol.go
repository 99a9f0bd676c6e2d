package models

import "time"

// WOLConfig holds the Wake-on-LAN broadcast target.
type WOLConfig struct {
	BroadcastAddress string // IPv4 literal, e.g. 255.255.255.255
	Port             int    // UDP port, 9 (discard) by default
}

// WakeRequest is a single authenticated wake request.
type WakeRequest struct {
	Password   string
	MAC        string
	RemoteAddr string // client address, for logs and notifications only
}

// WakeResult holds the result of a wake request.
type WakeResult struct {
	MAC        string // normalized, lowercase colon-separated
	PacketSent bool
	Duration   time.Duration
}
