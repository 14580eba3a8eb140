package domain

import (
	"time"

	"github.com/sendinvoices/sendinvoices/pkg/cryptox"
	"github.com/sendinvoices/sendinvoices/pkg/idx"
)

// User groups.
const (
	GroupAdmin = "admin"
	GroupUser  = "user"
)

// User is a merchant who logged in through the payment processor's Connect
// flow. MerchantID is the processor-issued account id; APIToken is our own
// inbound credential. Both are unique across all users.
type User struct {
	ID           string
	Group        string
	APIToken     string
	MerchantID   string
	AccessToken  string // processor OAuth access token, may be empty
	RefreshToken string // processor OAuth refresh token, may be empty
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a fully derived User for a first-time Connect login.
// All generated fields (id, group, api token) are set here so a partially
// derived record can never reach the store.
func NewUser(merchantID string) User {
	now := time.Now().UTC()
	return User{
		ID:         idx.New().String(),
		Group:      GroupUser,
		APIToken:   cryptox.MustGenerateAPIToken(cryptox.APITokenLength),
		MerchantID: merchantID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (u User) IsAdmin() bool { return u.Group == GroupAdmin }
