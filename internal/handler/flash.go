package handler

import (
	"context"
	"log"

	"blogplatform/internal/model"
	"blogplatform/internal/session"
	"blogplatform/internal/transport/http/middleware"
)

// addFlash queues a status message on the request's session.
// A failed flash only costs the user a message, never the operation.
func addFlash(ctx context.Context, store session.Store, category, message string) {
	token, ok := middleware.GetSessionToken(ctx)
	if !ok {
		return
	}
	if err := store.AddFlash(ctx, token, model.Flash{Category: category, Message: message}); err != nil {
		log.Printf("[flash] add failed: %v", err)
	}
}

// popFlashes drains the session's queued messages for rendering.
func popFlashes(ctx context.Context, store session.Store) []model.Flash {
	token, ok := middleware.GetSessionToken(ctx)
	if !ok {
		return nil
	}
	flashes, err := store.PopFlashes(ctx, token)
	if err != nil {
		log.Printf("[flash] pop failed: %v", err)
		return nil
	}
	return flashes
}
