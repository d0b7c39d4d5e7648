package domain

import (
	"fmt"
	"sort"
)

// Balances maps a participant id to their net position in minor units.
// Positive means the participant is owed money, negative means they owe.
type Balances map[string]int64

// ComputeBalances derives each participant's net balance from the expense
// list. It is a pure function: no I/O, no caching, always recomputed from
// the source of truth.
//
// Per expense the payer is credited the full amount, and each member of the
// expense's share set is debited an equal share. Shares are integer minor
// units; the remainder of an uneven division goes one unit each to the first
// `amount mod n` share members ordered by participant id ascending, so the
// debits always sum to the amount exactly.
//
// The sum of all balances is zero, except that NONE-mode expenses credit the
// payer without an offsetting debit: the payer absorbs a personal cost that
// is not to be recovered.
func ComputeBalances(participants []Participant, expenses []*Expense) (Balances, error) {
	known := make(map[string]bool, len(participants))

	balances := make(Balances, len(participants))
	for _, p := range participants {
		known[p.ID] = true
		balances[p.ID] = 0
	}

	for _, e := range expenses {
		if !known[e.PaidBy] {
			return nil, fmt.Errorf("%w: expense %s paid by %s", ErrUnknownParticipant, e.ID, e.PaidBy)
		}

		share := e.shareSet(participants)
		for _, id := range share {
			if !known[id] {
				return nil, fmt.Errorf("%w: expense %s splits to %s", ErrUnknownParticipant, e.ID, id)
			}
		}

		balances[e.PaidBy] += e.AmountMinor

		for id, debit := range splitShares(e.AmountMinor, share) {
			balances[id] -= debit
		}
	}

	return balances, nil
}

// splitShares divides amount equally across members, distributing the
// remainder one minor unit at a time to the first members sorted by id
// ascending. The returned debits sum to amount exactly.
func splitShares(amount int64, members []string) map[string]int64 {
	if len(members) == 0 {
		return nil
	}

	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)

	n := int64(len(sorted))
	base := amount / n
	remainder := amount % n

	shares := make(map[string]int64, len(sorted))
	for i, id := range sorted {
		share := base
		if int64(i) < remainder {
			share++
		}

		shares[id] = share
	}

	return shares
}
