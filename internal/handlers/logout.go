package handlers

import "net/http"

// NewLogoutHandler returns an HTTP handler acknowledging logout.
// Tokens are stateless, so the client simply discards its token.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.MessageResponse
// @Router /logout [post]
func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out. Please delete your token on the client."})
	}
}
