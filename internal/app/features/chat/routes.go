// internal/app/features/chat/routes.go
package chat

import (
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at "/assistant". Every signed-in role may chat; each user
// only sees their own conversations.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/conversations", h.ServeList)
		pr.Post("/conversations", h.HandleCreate)
		pr.Get("/conversations/{id}", h.ServeConversation)
		pr.Post("/conversations/{id}/messages", h.HandleSend)
	})

	return r
}
