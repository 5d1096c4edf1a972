package identity

import (
	"net/http"

	"vendora/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type kind int

const (
	kindNone kind = iota
	kindUser
	kindSession
)

// Identity is the owner of a cart or wishlist: exactly one of an
// authenticated user id or an anonymous session token. The tagged
// representation makes the "never both" invariant structural.
type Identity struct {
	kind kind
	id   string
}

func User(userID string) Identity {
	return Identity{kind: kindUser, id: userID}
}

func Session(token string) Identity {
	return Identity{kind: kindSession, id: token}
}

func (i Identity) IsZero() bool { return i.kind == kindNone || i.id == "" }
func (i Identity) IsUser() bool { return i.kind == kindUser }

func (i Identity) UserID() string {
	if i.kind == kindUser {
		return i.id
	}
	return ""
}

func (i Identity) SessionID() string {
	if i.kind == kindSession {
		return i.id
	}
	return ""
}

// Filter returns the bson owner filter for the identity.
func (i Identity) Filter() bson.M {
	switch i.kind {
	case kindUser:
		return bson.M{"userid": i.id}
	case kindSession:
		return bson.M{"sessionid": i.id}
	}
	return nil
}

// Owner returns the fields stamped onto a newly created owned document.
func (i Identity) Owner() bson.M {
	return i.Filter()
}

// FromRequest resolves the caller: an authenticated user id when the
// middleware put one on the context, else the anonymous session token.
func FromRequest(r *http.Request) Identity {
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		return User(userID)
	}
	if sid := utils.GetSessionIDFromRequest(r); sid != "" {
		return Session(sid)
	}
	return Identity{}
}
