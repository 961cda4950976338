package models

import "time"

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceOffline PresenceStatus = "offline"
)

type Presence struct {
	UserID   string         `bson:"_id" json:"user_id"`
	Status   PresenceStatus `bson:"status" json:"status"`
	LastSeen time.Time      `bson:"last_seen" json:"last_seen"`
}

// EffectiveStatus applies the server-side staleness rule: a presence document
// whose heartbeat is older than offlineAfter reads as offline no matter what
// status the client last reported. Disconnect detection does not depend on an
// unload handler firing.
func (p *Presence) EffectiveStatus(now time.Time, offlineAfter time.Duration) PresenceStatus {
	if now.Sub(p.LastSeen) > offlineAfter {
		return PresenceOffline
	}
	return p.Status
}
