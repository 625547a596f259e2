package handlers

import (
	"context"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers/userctx"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
)

func NewContextWithUser(ctx context.Context, u models.User) context.Context {
	return userctx.New(ctx, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	return userctx.FromContext(ctx)
}
