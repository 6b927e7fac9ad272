// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package lookup

import (
	"fmt"

	"github.com/hashicorp/cap-tokenclaims/claims"
)

// ProfileRequest is a request being processed by the issuer, with its
// inbound and outbound messages.
type ProfileRequest struct {
	Inbound  *Message
	Outbound *Message
}

// Message is one side of a ProfileRequest.
type Message struct {
	// Parent is the request the message belongs to.
	Parent *ProfileRequest

	// AccessTokenClaims are the claims of the validated access token
	// attached to the message, if any.
	AccessTokenClaims *claims.AccessToken
}

// NewProfileRequest returns a request with linked, empty inbound and outbound
// messages.
func NewProfileRequest() *ProfileRequest {
	p := &ProfileRequest{}
	p.Inbound = &Message{Parent: p}
	p.Outbound = &Message{Parent: p}
	return p
}

// UserInfoClientID returns the client id of the access token a user info
// request was authorized with. msg is any message of the request; the token
// is read from the request's outbound message.
func UserInfoClientID(msg *Message) (string, error) {
	const op = "lookup.UserInfoClientID"
	if msg == nil {
		return "", fmt.Errorf("%s: message is nil: %w", op, ErrNilParameter)
	}
	if msg.Parent == nil {
		return "", fmt.Errorf("%s: message has no parent request: %w", op, ErrNotFound)
	}
	out := msg.Parent.Outbound
	if out == nil {
		return "", fmt.Errorf("%s: request has no outbound message: %w", op, ErrNotFound)
	}
	if out.AccessTokenClaims == nil {
		return "", fmt.Errorf("%s: outbound message has no access token: %w", op, ErrNotFound)
	}
	return out.AccessTokenClaims.ClientID(), nil
}

// ensure UserInfoClientID is a lookup Func
var _ Func[*Message] = UserInfoClientID
