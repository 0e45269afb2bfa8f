/*
Package compare implements pairwise metric comparison between fused entities.

Each metric has a fixed direction in a policy table: attendance, bill pass
rate, petition counts, vote consistency, and committee rank are
higher-is-better; invalid votes and vote inconsistency are lower-is-better.
Differences inside Epsilon (0.01) are ties, so float formatting noise never
produces a winner.

Verdicts are symmetric by construction: Values(a, b, dir) and
Values(b, a, dir) always mirror each other.

Strings compares stat values that have already been rendered for display
("85.5%", "12건") by parsing their numeric prefix; an unparseable operand
forces a tie rather than guessing.
*/
package compare
