package nft

// The holder registry contains an account iff it owns at least one token.
// Transfers consult the per-owner buckets before the token moves: the sender
// is dropped when it is about to give away its last token and the receiver is
// added when it owned nothing before.

func (c *Contract) beforeTransfer(st State, sender, receiver string) error {
	sent, err := st.CountTokensForOwner(sender)
	if err != nil {
		return err
	}
	if sent == 1 {
		err = st.RemoveHolder(sender)
		if err != nil {
			return err
		}
	}
	received, err := st.CountTokensForOwner(receiver)
	if err != nil {
		return err
	}
	if received == 0 {
		return st.AddHolder(receiver)
	}
	return nil
}

// afterBurn drops the owner when its bucket became empty and reports whether
// it did.
func (c *Contract) afterBurn(st State, owner string) (bool, error) {
	remaining, err := st.CountTokensForOwner(owner)
	if err != nil || remaining > 0 {
		return false, err
	}
	return true, st.RemoveHolder(owner)
}
