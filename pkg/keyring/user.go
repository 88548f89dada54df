// Copyright 2024 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keyring

import (
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/pkg/scrypto"
)

// UserIDLength is the length of a user id in hex characters.
const UserIDLength = 64

const userSaltSize = 32

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// User is the owner of keys in a ring.
type User struct {
	ID    string
	Name  string
	Email string
}

// NewUser registers a new user. The id is derived from the name, the email
// and a random salt, so every call yields a different id.
func NewUser(name, email string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	salt, err := scrypto.RandomBytes(userSaltSize)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err)
	}
	digest := scrypto.Digest([]byte(userLine(name, email)), salt)
	id := hex.EncodeToString(digest)
	if len(id) > UserIDLength {
		id = id[:UserIDLength]
	}
	return &User{ID: id, Name: name, Email: email}, nil
}

// UserFrom reconstructs a stored user.
func UserFrom(id, name, email string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(id) != UserIDLength {
		return nil, validationError("invalid user id length",
			"expected", UserIDLength, "actual", len(id))
	}
	if _, err := hex.DecodeString(id); err != nil {
		return nil, serrors.JoinNoStack(ErrValidation, err, "reason", "user id is not hex")
	}
	return &User{ID: id, Name: name, Email: email}, nil
}

func (u *User) String() string {
	return userLine(u.Name, u.Email)
}

func userLine(name, email string) string {
	return fmt.Sprintf("%s <%s>", name, email)
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return validationError("invalid email address", "email", email)
	}
	return nil
}
