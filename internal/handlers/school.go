package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/handlers/render"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
)

type schoolResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Contact string    `json:"contact"`
	Code    string    `json:"code"`
}

func toSchoolResponse(s models.School) schoolResponse {
	return schoolResponse{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
		Contact: s.Contact,
		Code:    s.Code,
	}
}

func handleCreateSchool(schoolService schoolService, l logger.Logger) http.Handler {
	type request struct {
		Name    string `json:"name" validate:"required,min=2,max=200"`
		Address string `json:"address" validate:"required"`
		Contact string `json:"contact" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		school, err := schoolService.CreateSchool(r.Context(), data.Name, data.Address, data.Contact)
		if err != nil {
			l.Error("Failed to create school", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toSchoolResponse(school), http.StatusCreated)
	})
}

func handleGetSchoolByCode(schoolService schoolService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		school, err := schoolService.GetSchoolByCode(r.Context(), r.PathValue("code"))

		switch {
		case err == nil:
			render.JSON(w, toSchoolResponse(school))
		case errors.Is(err, apperrors.ErrSchoolNotFound):
			render.ServiceError(w, "School not found", http.StatusNotFound)
		default:
			l.Error("Failed to get school", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
