package settlement

// ComputeBalance folds a user's transactions into their net position.
// Only outstanding (pending or disputed) transactions count; the result is
// identical regardless of the order the transactions arrive in.
func ComputeBalance(userID string, txs []*Transaction) *UserBalance {
	b := &UserBalance{UserID: userID}

	for _, tx := range txs {
		if !tx.Status.CountsTowardBalance() {
			continue
		}
		if tx.FromUserID == userID {
			b.TotalItemsOwed += tx.ItemPoints
		}
		if tx.ToUserID == userID {
			b.TotalItemsOwedTo += tx.ItemPoints
		}
	}

	b.NetItemBalance = b.TotalItemsOwedTo - b.TotalItemsOwed
	return b
}
