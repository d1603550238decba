package domain

import "time"

// Claim is the identity carried inside a signed token. Access and refresh
// tokens share this shape; nothing in the payload tells them apart.
type Claim struct {
	Subject   string // user ID
	Email     string
	ExpiresAt time.Time
}

// IssuedSession is returned by login and refresh. There is no server-side
// session record: the token pair is the whole session state.
type IssuedSession struct {
	User         *User
	AccessToken  string
	RefreshToken string
}
