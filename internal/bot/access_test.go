package bot

import (
	"testing"

	"horse.fit/polly/internal/db"
)

func TestAccessDefaultsToAllow(t *testing.T) {
	t.Parallel()

	actor := Actor{GuildID: "g1", ChannelID: "c1", MemberID: "u1"}
	if !accessAllowed(nil, nil, actor) {
		t.Fatal("expected empty lists to allow everyone")
	}
}

func TestAllowlistSwitchesDefaultToDeny(t *testing.T) {
	t.Parallel()

	allowlist := []db.AccessEntry{{Kind: db.AccessKindChannel, ID: "c-allowed"}}

	allowed := Actor{GuildID: "g1", ChannelID: "c-allowed", MemberID: "u1"}
	if !accessAllowed(allowlist, nil, allowed) {
		t.Fatal("expected listed channel to be allowed")
	}

	denied := Actor{GuildID: "g1", ChannelID: "c-other", MemberID: "u1"}
	if accessAllowed(allowlist, nil, denied) {
		t.Fatal("expected unlisted channel to be denied with an allowlist present")
	}
}

func TestAllowlistMatchesCategoryAndRole(t *testing.T) {
	t.Parallel()

	allowlist := []db.AccessEntry{
		{Kind: db.AccessKindChannel, ID: "cat-1"},
		{Kind: db.AccessKindRole, ID: "r-translators"},
	}

	byCategory := Actor{GuildID: "g1", ChannelID: "c-any", CategoryID: "cat-1", MemberID: "u1"}
	if !accessAllowed(allowlist, nil, byCategory) {
		t.Fatal("expected category match to allow")
	}

	byRole := Actor{GuildID: "g1", ChannelID: "c-any", MemberID: "u1", RoleIDs: []string{"g1", "r-translators"}}
	if !accessAllowed(allowlist, nil, byRole) {
		t.Fatal("expected role match to allow")
	}

	everyoneOnly := Actor{GuildID: "g1", ChannelID: "c-any", MemberID: "u1", RoleIDs: []string{"g1"}}
	if accessAllowed(allowlist, nil, everyoneOnly) {
		t.Fatal("expected the everyone role to never match a list entry")
	}
}

func TestBlocklistDeniesMatches(t *testing.T) {
	t.Parallel()

	blocklist := []db.AccessEntry{
		{Kind: db.AccessKindMember, ID: "u-banned"},
		{Kind: db.AccessKindChannel, ID: "c-quiet"},
	}

	banned := Actor{GuildID: "g1", ChannelID: "c1", MemberID: "u-banned"}
	if accessAllowed(nil, blocklist, banned) {
		t.Fatal("expected blocklisted member to be denied")
	}

	quiet := Actor{GuildID: "g1", ChannelID: "c-quiet", MemberID: "u1"}
	if accessAllowed(nil, blocklist, quiet) {
		t.Fatal("expected blocklisted channel to be denied")
	}

	other := Actor{GuildID: "g1", ChannelID: "c1", MemberID: "u1"}
	if !accessAllowed(nil, blocklist, other) {
		t.Fatal("expected unlisted actor to pass the blocklist")
	}
}

func TestAllowlistPresenceSkipsBlocklist(t *testing.T) {
	t.Parallel()

	allowlist := []db.AccessEntry{{Kind: db.AccessKindMember, ID: "u1"}}
	blocklist := []db.AccessEntry{{Kind: db.AccessKindMember, ID: "u1"}}

	actor := Actor{GuildID: "g1", ChannelID: "c1", MemberID: "u1"}
	if !accessAllowed(allowlist, blocklist, actor) {
		t.Fatal("expected the blocklist to be ignored while an allowlist exists")
	}
}
