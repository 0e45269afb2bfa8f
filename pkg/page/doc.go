/*
Package page is the process-level controller: one Page per running command.

A page owns its own bolt cache (one file per entity kind, so two running
pages never fight over a database lock), a feed loader, the snapshot
manager, and a notification channel to its sibling pages. Run performs the
initial load, renders the ranking through the persisted view state, and
then applies channel messages until cancelled:

	calculated_data_distribution  -> ApplyCalculated + re-render
	data_reset_to_original        -> ResetToOriginal + re-render
	connection_check/response     -> connected indicator

The weights commands run through the same controller headless:
ApplyWeights recalculates every score from the fused stats (weighted mean
of the per-metric contributions, unmentioned metrics weighted 1.0),
applies the result locally, and distributes it; ResetWeights restores the
original ranking and broadcasts the reset.
*/
package page
