//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// race builds hash at the library default, cost 12 is too slow under the detector
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
