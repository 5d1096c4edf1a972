package utils

import (
	"net/http"

	"vendora/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRoleFromRequest(r *http.Request) string {
	role, ok := r.Context().Value(globals.RoleKey).(string)
	if !ok {
		return ""
	}
	return role
}

func GetSessionIDFromRequest(r *http.Request) string {
	sid, ok := r.Context().Value(globals.SessionIDKey).(string)
	if !ok {
		return ""
	}
	return sid
}
