package irc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/xdg-go/scram"
)

// ErrUnsupportedMechanism is returned for SASL mechanisms the library
// recognizes but does not implement.  Channel-binding SCRAM is rejected
// explicitly instead of silently behaving like plain SCRAM.
var ErrUnsupportedMechanism = errors.New("unsupported SASL mechanism")

// SASLClient drives one authentication exchange.  Handshake returns
// the mechanism name to announce; Respond answers one AUTHENTICATE
// challenge (base64, or "+" for empty).
type SASLClient interface {
	Handshake() (mech string)
	Respond(challenge string) (res string, err error)
}

type SASLPlain struct {
	Username string
	Password string
}

func (auth *SASLPlain) Handshake() (mech string) {
	mech = "PLAIN"
	return
}

func (auth *SASLPlain) Respond(challenge string) (res string, err error) {
	if challenge != "+" {
		err = errors.New("unexpected challenge")
		return
	}

	user := []byte(auth.Username)
	pass := []byte(auth.Password)
	payload := bytes.Join([][]byte{user, user, pass}, []byte{0})
	res = base64.StdEncoding.EncodeToString(payload)

	return
}

// SASLExternal authenticates with the TLS client certificate presented
// at connection time.
type SASLExternal struct{}

func (auth *SASLExternal) Handshake() (mech string) {
	mech = "EXTERNAL"
	return
}

func (auth *SASLExternal) Respond(challenge string) (res string, err error) {
	if challenge != "+" {
		err = errors.New("unexpected challenge")
		return
	}
	res = "+"
	return
}

// SASLScram is a SCRAM-SHA-256 client.
type SASLScram struct {
	Username string
	Password string

	conv *scram.ClientConversation
}

func (auth *SASLScram) Handshake() (mech string) {
	mech = "SCRAM-SHA-256"
	return
}

func (auth *SASLScram) Respond(challenge string) (res string, err error) {
	if auth.conv == nil {
		var client *scram.Client
		client, err = scram.SHA256.NewClient(auth.Username, auth.Password, "")
		if err != nil {
			return
		}
		auth.conv = client.NewConversation()
	}

	var decoded []byte
	if challenge != "+" {
		decoded, err = base64.StdEncoding.DecodeString(challenge)
		if err != nil {
			return
		}
	}

	step, err := auth.conv.Step(string(decoded))
	if err != nil {
		return
	}
	if step == "" {
		res = "+"
	} else {
		res = base64.StdEncoding.EncodeToString([]byte(step))
	}

	return
}

// NewSASLClient builds the client for a configured mechanism name.
// SCRAM-SHA-256-PLUS is recognized but unimplemented and is rejected
// here rather than downgraded.
func NewSASLClient(mech, username, password string) (SASLClient, error) {
	switch mech {
	case "", "PLAIN":
		return &SASLPlain{Username: username, Password: password}, nil
	case "EXTERNAL":
		return &SASLExternal{}, nil
	case "SCRAM-SHA-256":
		return &SASLScram{Username: username, Password: password}, nil
	case "SCRAM-SHA-256-PLUS":
		return nil, fmt.Errorf("%w: %s (channel binding is not implemented)", ErrUnsupportedMechanism, mech)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMechanism, mech)
	}
}
