package storage

// Keys for the persisted authentication state. They are always written and
// invalidated together.
const (
	keyAuthToken = "auth_token"
	keyUserID    = "user_id"
	keyUserName  = "user_name"
	keyUserRole  = "user_role"
)

// IdentityFields are the denormalized display fields cached next to the
// bearer token so a reload can show the signed-in user without a round trip.
type IdentityFields struct {
	UserID string
	Name   string
	Role   string
}

// CredentialStore holds the bearer token and cached identity fields.
//
// It is pure storage with no policy: no validation of the token happens here,
// and every operation is infallible from the caller's perspective. A storage
// failure degrades to "absent" rather than surfacing an error.
type CredentialStore struct {
	local *LocalStore
}

// NewCredentialStore creates a credential store over the local KV store.
func NewCredentialStore(local *LocalStore) *CredentialStore {
	return &CredentialStore{local: local}
}

// Save persists the bearer token together with the identity display fields.
func (c *CredentialStore) Save(token string, fields IdentityFields) {
	_ = c.local.Set(keyAuthToken, token)
	_ = c.local.Set(keyUserID, fields.UserID)
	_ = c.local.Set(keyUserName, fields.Name)
	_ = c.local.Set(keyUserRole, fields.Role)
}

// Token returns the stored bearer token, or ("", false) when absent.
func (c *CredentialStore) Token() (string, bool) {
	token, ok := c.local.Get(keyAuthToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Fields returns the cached identity display fields. Missing keys come back
// as empty strings.
func (c *CredentialStore) Fields() IdentityFields {
	id, _ := c.local.Get(keyUserID)
	name, _ := c.local.Get(keyUserName)
	role, _ := c.local.Get(keyUserRole)
	return IdentityFields{UserID: id, Name: name, Role: role}
}

// Clear removes the token and all cached identity fields.
func (c *CredentialStore) Clear() {
	_ = c.local.Delete(keyAuthToken, keyUserID, keyUserName, keyUserRole)
}
