package models

// Profile is free-form per-user data, keyed by email and distinct from the
// User identity record. The shape is whatever the client submits; only the
// email key is interpreted server-side.
//
// Merge policy: upserts apply a $set of the submitted fields, so absent
// fields are preserved, never cleared (document-merge, not full replace).
type Profile map[string]interface{}

// Email returns the profile's identity key, empty when missing.
func (p Profile) Email() string {
	if v, ok := p["email"].(string); ok {
		return v
	}
	return ""
}
