package domain

// Identity is the principal a credential vouches for. It is embedded in
// one-time codes and token claims so redemption never needs a join to be
// correct, though the token endpoint re-reads the user for freshness.
type Identity struct {
	UserID string
	Email  string
	Role   string
}
