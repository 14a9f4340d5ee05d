package types

// Identity is the long-lived device identity created once at registration
// and never rotated: an Ed25519 signing pair that authenticates pre-keys and
// session AAD, and a separate X25519 pair that participates in DH1 of X3DH.
// The two pairs are independently generated — never derived from each
// other — so a compromise of one algorithm's math cannot be leveraged
// against the other (spec.md §3).
type Identity struct {
	RegistrationID RegistrationID `json:"registration_id"`
	SignPub        Ed25519Public  `json:"sign_pub"`
	SignPriv       Ed25519Private `json:"sign_priv"`
	DHPub          X25519Public   `json:"dh_pub"`
	DHPriv         X25519Private `json:"dh_priv"`
}

// Public strips the identity down to what a peer is allowed to see.
func (id Identity) Public() IdentityPublic {
	return IdentityPublic{
		RegistrationID: id.RegistrationID,
		SignPub:        id.SignPub,
		DHPub:          id.DHPub,
	}
}

// IdentityPublic is the public half of an Identity, as published in a
// pre-key bundle.
type IdentityPublic struct {
	RegistrationID RegistrationID `json:"registration_id"`
	SignPub        Ed25519Public  `json:"sign_pub"`
	DHPub          X25519Public   `json:"dh_pub"`
}
