package notification

import "sort"

// Deduplicate partitions a user's notifications into the survivor per
// (invoiceID, kind) key and the stale duplicates that must be deleted.
// Within a duplicated key the most recently created notification wins;
// ties fall back to the lexically greatest ID so the outcome is stable
// across runs.
//
// Duplicates arise when reconciliation passes for the same user overlap
// (read-diff-write race). Running this before every diff is what lets the
// reconciler assume at most one notification per key.
func Deduplicate(notifs []*Notification) (keep map[Key]*Notification, stale []*Notification) {
	groups := make(map[Key][]*Notification)
	for _, n := range notifs {
		k := KeyOf(n)
		groups[k] = append(groups[k], n)
	}

	keep = make(map[Key]*Notification, len(groups))
	for k, group := range groups {
		if len(group) == 1 {
			keep[k] = group[0]
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.After(group[j].CreatedAt)
			}
			return group[i].ID > group[j].ID
		})
		keep[k] = group[0]
		stale = append(stale, group[1:]...)
	}
	// Map iteration above makes the stale order random; sort so callers
	// emit deterministic deletion batches.
	sort.Slice(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })
	return keep, stale
}
