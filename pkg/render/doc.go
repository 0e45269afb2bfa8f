/*
Package render draws ranking tables and comparison cards for the terminal
using lipgloss.

ApplyView is the pure half: it applies search, party filter, sort, and
pagination to a snapshot and is what the tests exercise. The styled
functions (Ranking, Comparison, Degraded) wrap it with presentation only —
calculated-mode rows that diverge from their original score are highlighted
and annotated, and a weights line is shown when the snapshot carries one.
*/
package render
