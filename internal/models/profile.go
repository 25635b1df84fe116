package models

import "net/url"

// Profile is the authenticated user's account.
type Profile struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *Timestamp `json:"email_verified_at"`
	IsAdmin         bool       `json:"is_admin"`
}

// IsVerified reports whether the e-mail address has been verified.
func (p *Profile) IsVerified() bool {
	return p.EmailVerifiedAt != nil
}

// AvatarURL returns a generated avatar for the profile name.
func (p *Profile) AvatarURL() string {
	return "https://eu.ui-avatars.com/api/?background=random&name=" + url.QueryEscape(p.Name)
}
