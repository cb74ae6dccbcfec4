/*
Package user contains core data structures related to participant identity.

It defines the basic representation of a chat participant (the User struct),
used for passing user information both internally and to clients.
*/
package user

// DefaultAvatar is the glyph assigned to every participant.
const DefaultAvatar = "👤"

// User represents one participant's state, scoped to a single circle and a
// single connected session. It is populated at join time and never mutated
// afterwards.
type User struct {

	// SessionID is the transport-assigned identifier, unique per connection.
	SessionID string `json:"id"`

	// Nickname is the display name of the user within the circle.
	Nickname string `json:"nickname"`

	// Flair is an optional decorative subtitle shown next to the nickname.
	Flair string `json:"flair"`

	// Avatar is the glyph rendered for the user.
	Avatar string `json:"avatar"`

	// ClientToken is an opaque client-supplied identifier. It is only ever
	// compared server-side to allow nickname reuse across reconnects and is
	// never serialized back to clients.
	ClientToken string `json:"-"`
}
