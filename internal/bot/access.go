package bot

import "horse.fit/polly/internal/db"

// Actor identifies where an event happened and who caused it, as
// reported by the host gateway.
type Actor struct {
	GuildID    string   `json:"guild_id"`
	ChannelID  string   `json:"channel_id"`
	CategoryID string   `json:"category_id"`
	MemberID   string   `json:"member_id"`
	RoleIDs    []string `json:"role_ids"`
	IsBot      bool     `json:"is_bot"`
}

// accessAllowed applies the guild's access lists to an actor. A
// non-empty allowlist switches the default to deny and grants access
// only to matching entries; otherwise matching blocklist entries deny.
func accessAllowed(allowlist, blocklist []db.AccessEntry, actor Actor) bool {
	if len(allowlist) > 0 {
		return matchesAccessList(allowlist, actor)
	}
	return !matchesAccessList(blocklist, actor)
}

func matchesAccessList(entries []db.AccessEntry, actor Actor) bool {
	for _, entry := range entries {
		switch entry.Kind {
		case db.AccessKindChannel:
			// Category entries allow or deny a whole channel group.
			if entry.ID == actor.ChannelID {
				return true
			}
			if actor.CategoryID != "" && entry.ID == actor.CategoryID {
				return true
			}
		case db.AccessKindMember:
			if entry.ID == actor.MemberID {
				return true
			}
		case db.AccessKindRole:
			for _, roleID := range actor.RoleIDs {
				// The everyone role carries the guild's own ID and
				// never counts as a list match.
				if roleID == actor.GuildID {
					continue
				}
				if entry.ID == roleID {
					return true
				}
			}
		}
	}
	return false
}
