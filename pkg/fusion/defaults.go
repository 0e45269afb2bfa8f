package fusion

import "github.com/baekilha/baekilha/pkg/types"

// defaultMemberNames seeds the built-in dataset served when every member feed
// is down. Stats are all defaults, so rankings render but carry no signal.
var defaultMemberSeed = []struct {
	name  string
	party string
}{
	{"김영진", "더불어민주당"},
	{"박성준", "더불어민주당"},
	{"이준석", "개혁신당"},
	{"김기현", "국민의힘"},
	{"박수현", "더불어민주당"},
	{"조국", "조국혁신당"},
	{"심상정", "정의당"},
	{"안철수", "국민의힘"},
	{"한동훈", "국민의힘"},
	{"이재명", "더불어민주당"},
}

var defaultPartyNames = []string{
	"더불어민주당",
	"국민의힘",
	"조국혁신당",
	"개혁신당",
	"진보당",
	"정의당",
	"무소속",
}

// DefaultMembers returns the built-in member dataset with default stats.
func DefaultMembers() []*types.Member {
	members := make([]*types.Member, 0, len(defaultMemberSeed))
	for i, seed := range defaultMemberSeed {
		stats := computeMemberStats(types.MemberRefs{})
		stats.OverallRank = i + 1
		members = append(members, &types.Member{
			ID:    "default-" + seed.name,
			Name:  seed.name,
			Party: seed.party,
			Stats: stats,
		})
	}
	return members
}

// DefaultParties returns the built-in party dataset with default stats.
func DefaultParties() []*types.Party {
	parties := make([]*types.Party, 0, len(defaultPartyNames))
	for i, name := range defaultPartyNames {
		stats := computePartyStats(types.PartyRefs{})
		stats.Rank = i + 1
		parties = append(parties, &types.Party{
			ID:    "default-" + name,
			Name:  name,
			Stats: stats,
		})
	}
	return parties
}
