package domain

// Transfer is a single settling payment between two participants.
type Transfer struct {
	From        string
	To          string
	AmountMinor int64
}

// Settle computes a minimal set of transfers that zeroes out the matchable
// balances. It greedily pairs the largest-magnitude debtor with the
// largest-magnitude creditor, transfers the smaller of the two magnitudes,
// and repeats. Each transfer fully settles at least one party, so at most
// n-1 transfers are produced for n participants with nonzero balance.
//
// Ties in magnitude break by participant id ascending, making the output
// deterministic. NONE-mode expenses can leave total credits above total
// debits; settlement clears the matchable portion and creditors retain the
// absorbed remainder.
func Settle(balances Balances) []Transfer {
	creditors := make(Balances, len(balances))
	debtors := make(Balances, len(balances))

	for id, net := range balances {
		switch {
		case net > 0:
			creditors[id] = net
		case net < 0:
			debtors[id] = -net
		}
	}

	var transfers []Transfer

	for len(creditors) > 0 && len(debtors) > 0 {
		debtor := largest(debtors)
		creditor := largest(creditors)

		amount := debtors[debtor]
		if creditors[creditor] < amount {
			amount = creditors[creditor]
		}

		transfers = append(transfers, Transfer{
			From:        debtor,
			To:          creditor,
			AmountMinor: amount,
		})

		debtors[debtor] -= amount
		if debtors[debtor] == 0 {
			delete(debtors, debtor)
		}

		creditors[creditor] -= amount
		if creditors[creditor] == 0 {
			delete(creditors, creditor)
		}
	}

	return transfers
}

// largest returns the id with the greatest magnitude, ids ascending on ties.
func largest(magnitudes Balances) string {
	var (
		bestID  string
		bestMag int64
	)

	for id, mag := range magnitudes {
		if mag > bestMag || (mag == bestMag && (bestID == "" || id < bestID)) {
			bestID = id
			bestMag = mag
		}
	}

	return bestID
}
