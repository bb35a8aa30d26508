package store

import "time"

const (
	RoomStatusWaiting = "waiting"
	RoomStatusPlaying = "playing"
	RoomStatusEnded   = "ended"
)

const (
	PresenceBrowsing = "browsing"
	PresenceIdle     = "idle"
)

// Player is embedded in a Room document. A userId appears at most once per
// room; order is join order.
type Player struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	AvatarRef   string    `json:"avatarRef"`
	Ready       bool      `json:"ready"`
	Score       int       `json:"score"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Room is a single live-session lobby/match instance. Players live in a
// JSONB column so the row behaves like one document.
type Room struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	HostID            string     `json:"hostId"`
	HostName          string     `json:"hostName"`
	Status            string     `json:"status"`
	Mode              string     `json:"mode"`
	Players           []Player   `json:"players"`
	MinPlayers        int        `json:"minPlayers"`
	MaxPlayers        int        `json:"maxPlayers"`
	ExternalSessionID string     `json:"externalSessionId,omitempty"`
	VoiceChannelLink  string     `json:"voiceChannelLink,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastActivityAt    time.Time  `json:"lastActivityAt"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	FinishedAt        *time.Time `json:"finishedAt,omitempty"`
}

// HasPlayer reports whether userID is already seated.
func (r *Room) HasPlayer(userID string) bool {
	for _, p := range r.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// User is a participant record. Bots share the schema with real users and
// carry a deterministic id plus presence fields.
type User struct {
	ID              string     `json:"id"`
	Nickname        string     `json:"nickname"`
	Username        string     `json:"username"`
	AvatarRef       string     `json:"avatarRef"`
	IsBot           bool       `json:"isBot"`
	TicketBalance   int64      `json:"ticketBalance"`
	PresenceState   string     `json:"presenceState,omitempty"`
	LastHeartbeatAt *time.Time `json:"lastHeartbeatAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// RewardEvent records one applied ledger key. Append-only, never updated.
type RewardEvent struct {
	Key       string
	UserID    string
	Amount    int64
	AwardedAt time.Time
}

// ArchiveEntry is a finished-session summary.
type ArchiveEntry struct {
	ID          string
	SessionID   string
	Winner      string
	Leaderboard []byte
	DurationMS  int64
	ArchivedAt  time.Time
}
