package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers/render"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
)

func handleUserMe() http.Handler {
	type response struct {
		ID       uuid.UUID  `json:"id"`
		Name     string     `json:"name"`
		Email    string     `json:"email"`
		Role     string     `json:"role"`
		SchoolID *uuid.UUID `json:"schoolId"`
		Balance  int64      `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		render.JSON(w, response{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
			SchoolID: user.SchoolID,
			Balance:  user.Balance,
		})
	})
}

func handleUserBalance() http.Handler {
	type response struct {
		Balance int64 `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		render.JSON(w, response{Balance: user.Balance})
	})
}

func handleJoinSchool(userService userService, l logger.Logger) http.Handler {
	type request struct {
		SchoolCode string `json:"schoolCode" validate:"required"`
	}
	type response struct {
		SchoolID *uuid.UUID `json:"schoolId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		updated, err := userService.JoinSchoolByCode(r.Context(), user.ID, data.SchoolCode)

		switch {
		case err == nil:
			render.JSON(w, response{SchoolID: updated.SchoolID})
		case errors.Is(err, apperrors.ErrSchoolNotFound):
			render.ServiceError(w, "Invalid school code", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to join school", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTotalBalance(userService userService, l logger.Logger) http.Handler {
	type response struct {
		Total int64 `json:"total"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var schoolID *uuid.UUID
		if raw := r.URL.Query().Get("schoolId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				render.ServiceError(w, "Invalid schoolId", http.StatusBadRequest)
				return
			}
			schoolID = &id
		}

		total, err := userService.TotalBalance(r.Context(), schoolID)
		if err != nil {
			l.Error("Failed to sum balances", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Total: total})
	})
}
