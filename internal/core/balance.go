package core

// Contributions maps each participant to the amount the other participant
// owes them, i.e. the sum of OtherShare over entries they paid. Keeping the
// full map rather than a single scalar leaves the aggregation open to more
// than two participants; the pairwise balance is a derived view.
type Contributions map[Participant]Money

// Aggregate reduces an entry collection to per-participant owed amounts.
// Rows with a payer outside the pair still aggregate under their own key;
// malformed numeric fields have been coerced to zero upstream and simply
// contribute nothing.
func Aggregate(entries []Entry) Contributions {
	out := make(Contributions)
	for _, e := range entries {
		c := out[e.Payer]
		c.Cents += e.OtherShare.Cents
		out[e.Payer] = c
	}
	return out
}

// ComputeBalance reduces the full entry collection into the signed net
// balance between the two participants. Positive means pair.Other owes
// pair.First; negative means the reverse; zero means settled. Deterministic
// given the same collection, independent of row order.
func ComputeBalance(entries []Entry, pair Pair) Money {
	contrib := Aggregate(entries)
	return Money{Cents: contrib[pair.First].Cents - contrib[pair.Other].Cents}
}

// Creditor returns who is owed the net balance and the absolute amount owed.
// The second participant returned is the debtor. A zero balance means the
// pair is settled and both returns are the zero value.
func Creditor(net Money, pair Pair) (creditor, debtor Participant, amount Money) {
	switch {
	case net.Cents > 0:
		return pair.First, pair.Other, net
	case net.Cents < 0:
		return pair.Other, pair.First, net.Abs()
	default:
		return "", "", Money{}
	}
}
