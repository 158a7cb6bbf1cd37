// Package payload builds the benchmark fixture, a list of user records, and
// binds it to every wire format under test.
package payload

import (
	"errors"
	"fmt"
)

// Default fixture size.
const DefaultNumUsers = 5000

// Roles cycles across generated users.
var Roles = []string{"admin", "user", "moderator", "superuser"}

// ErrInvalidSize is returned by Generate for a non-positive user count.
var ErrInvalidSize = errors.New("payload: user count must be positive")

// User is one record of the fixture.
type User struct {
	ID   int64  `json:"id" cbor:"id" msgpack:"id" toon:"id"`
	Name string `json:"name" cbor:"name" msgpack:"name" toon:"name"`
	Role string `json:"role" cbor:"role" msgpack:"role" toon:"role"`
}

// Payload is the logical document every codec encodes.
type Payload struct {
	Users []User `json:"users" cbor:"users" msgpack:"users" toon:"users"`
}

// Generate builds a payload of n users with IDs 1..n.
func Generate(n int) (Payload, error) {
	if n <= 0 {
		return Payload{}, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	users := make([]User, n)
	for i := range users {
		users[i] = User{
			ID:   int64(i + 1),
			Name: fmt.Sprintf("User_%d", i),
			Role: Roles[i%len(Roles)],
		}
	}
	return Payload{Users: users}, nil
}

// Equal reports whether p and o hold the same users in the same order.
func (p Payload) Equal(o Payload) bool {
	if len(p.Users) != len(o.Users) {
		return false
	}
	for i := range p.Users {
		if p.Users[i] != o.Users[i] {
			return false
		}
	}
	return true
}
