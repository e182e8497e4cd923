package model

// Account is one credential line plus the raw proxy assigned to it.
type Account struct {
	Index int    `json:"index"`
	Token string `json:"-"`
	Proxy string `json:"proxy,omitempty"`
}

// ShortToken renders the token prefix used in console banners.
func (a Account) ShortToken() string {
	const n = 10
	if len(a.Token) <= n {
		return a.Token + "..."
	}
	return a.Token[:n] + "..."
}
