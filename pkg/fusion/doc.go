/*
Package fusion joins independent feed records into unified member and party
entities.

The upstream API offers no shared key across feeds, so display name is the
join key. Fusion takes the union of names: a member appearing in any feed gets
an entity, with nil references for the feeds that missed and an
always-populated stats block backed by documented defaults. Bill-count records
that miss the name join get one more chance through the lawmaker id they share
with the performance feed.

# Fusion pipeline

	 six member feeds            three party feeds
	      │ (concurrent fetch, failures tolerated)
	      ▼
	 union-of-names join  ──►  MemberRefs / PartyRefs
	      │
	      ▼
	 computeMemberStats / computePartyStats (defaults for absent feeds)
	      │
	      ▼
	 []*types.Member / []*types.Party

Party attribution for members follows feed priority: roster, then
performance, then ranking, then committee, else 무소속.

# Degradation

LoadMembers and LoadParties never fail on feed errors. A partial outage
produces entities with default stats for the missing dimensions; a total
outage produces the built-in default dataset with the result's Degraded flag
set so the page can tell the user once. The only error either returns is
context cancellation.

Known limitation: two members sharing a display name fuse into one entity.
The upstream feeds offer no stable cross-feed key to do better.
*/
package fusion
