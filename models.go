package auth

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// AuthorityUser is assigned to every account on signup
	AuthorityUser = "ROLE_USER"
	// AuthorityAdmin grants access to administrative lookups
	AuthorityAdmin = "ROLE_ADMIN"
)

// User is the identity record
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"-"`
	Username      string      `bun:"username,notnull,unique" json:"username"`
	PasswordHash  string      `bun:"password_hash,notnull" json:"-"`
	Nickname      string      `bun:"nickname" json:"nickname,omitempty"`
	Activated     bool        `bun:"activated,notnull" json:"activated"`
	Authorities   []Authority `bun:"m2m:user_authority,join:User=Authority" json:"authorities,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AuthorityNames returns the sorted, de-duplicated authority names
func (u *User) AuthorityNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.Authorities))
	for _, a := range u.Authorities {
		names = append(names, a.Name)
	}
	return normalizeAuthorities(names)
}

// Authority names a permission or role. Authorities are immutable once created.
type Authority struct {
	bun.BaseModel `bun:"table:authority,alias:ath"`
	Name          string `bun:"authority_name,pk" json:"authority_name"`
}

// UserAuthority is the join relation between users and authorities
type UserAuthority struct {
	bun.BaseModel `bun:"table:user_authority,alias:uath"`
	UserID        uuid.UUID  `bun:"user_id,pk,type:uuid"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id"`
	AuthorityName string     `bun:"authority_name,pk"`
	Authority     *Authority `bun:"rel:belongs-to,join:authority_name=authority_name"`
}

// UserSummary is the public view of a user record
type UserSummary struct {
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname"`
	Authorities []string `json:"authorities"`
}

// SummaryFromUser strips credentials and ids from a record
func SummaryFromUser(u *User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		Username:    u.Username,
		Nickname:    u.Nickname,
		Authorities: u.AuthorityNames(),
	}
}

func normalizeAuthorities(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
