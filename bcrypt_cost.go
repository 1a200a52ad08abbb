//go:build !race

package chat

// BcryptCost is the work factor used for new hashes. Verification reads the
// cost from the hash itself, so bumping this does not invalidate old rows.
var BcryptCost = 12

func passwordHashCost() int {
	return BcryptCost
}
