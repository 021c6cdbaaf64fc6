// Package session tracks refresh tokens for the administrative identity.
// Ordinary customers keep their single refresh token in the customers table;
// the admin account never touches the database, so its sessions live in a
// Store injected at startup. The interface keeps the registry swappable for
// a shared cache when the service runs on more than one instance.
package session

// Identity is the resolved owner of a refresh token.
type Identity struct {
    ID       uint64
    Username string
    Roles    []int
}

// Store is the authority on which administrative refresh tokens are valid.
type Store interface {
    // Get retrieves the identity a token authorizes. The second return is
    // false when the token is unknown or already invalidated.
    Get(token string) (Identity, bool)
    // Put registers a token for an identity, replacing any existing entry.
    Put(token string, id Identity)
    // Delete invalidates a token. Deleting an unknown token is a no-op.
    Delete(token string)
}
