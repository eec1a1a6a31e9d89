package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rootline/rootline-backend/api/responses"
	"github.com/rootline/rootline-backend/api/validators"
	"github.com/rootline/rootline-backend/internal/persons"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
	"github.com/rootline/rootline-backend/pkg/logger"
	"github.com/rootline/rootline-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

type createPersonRequest struct {
	GenealogyID uuid.UUID `json:"genealogy_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=100"`
	Gender      *string   `json:"gender,omitempty"`
	BirthDate   *string   `json:"birth_date,omitempty"`
	DeathDate   *string   `json:"death_date,omitempty"`
	BirthPlace  *string   `json:"birth_place,omitempty" validate:"omitempty,max=200"`
	DeathPlace  *string   `json:"death_place,omitempty" validate:"omitempty,max=200"`
	Occupation  *string   `json:"occupation,omitempty" validate:"omitempty,max=200"`
	Biography   *string   `json:"biography,omitempty" validate:"omitempty,max=5000"`
	PhotoURL    *string   `json:"photo_url,omitempty" validate:"omitempty,url"`
	Generation  *int      `json:"generation,omitempty"`
}

type updatePersonRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Gender     *string `json:"gender,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty"`
	DeathDate  *string `json:"death_date,omitempty"`
	BirthPlace *string `json:"birth_place,omitempty" validate:"omitempty,max=200"`
	DeathPlace *string `json:"death_place,omitempty" validate:"omitempty,max=200"`
	Occupation *string `json:"occupation,omitempty" validate:"omitempty,max=200"`
	Biography  *string `json:"biography,omitempty" validate:"omitempty,max=5000"`
	PhotoURL   *string `json:"photo_url,omitempty" validate:"omitempty,url"`
	Generation *int    `json:"generation,omitempty"`
}

func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must use the YYYY-MM-DD format")
	}
	return &parsed, nil
}

func parseGender(raw *string) (*enums.Gender, error) {
	if raw == nil {
		return nil, nil
	}
	gender, err := enums.ParseGender(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	return &gender, nil
}

// PersonCreate adds a person to a genealogy the caller owns.
func PersonCreate(svc persons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "person service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPersonRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		gender, err := parseGender(body.Gender)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		birthDate, err := parseDate(body.BirthDate, "birth_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deathDate, err := parseDate(body.DeathDate, "death_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, persons.CreatePersonInput{
			GenealogyID: body.GenealogyID,
			Name:        body.Name,
			Gender:      gender,
			BirthDate:   birthDate,
			DeathDate:   deathDate,
			BirthPlace:  body.BirthPlace,
			DeathPlace:  body.DeathPlace,
			Occupation:  body.Occupation,
			Biography:   body.Biography,
			PhotoURL:    body.PhotoURL,
			Generation:  body.Generation,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// PersonList returns the persons of one genealogy, addressed by query
// parameter so the collection endpoint mirrors the nested genealogy route.
func PersonList(svc persons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "person service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := r.URL.Query().Get("genealogy_id")
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "genealogy_id is required"))
			return
		}
		genealogyID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid genealogy_id"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListByGenealogy(r.Context(), userID, genealogyID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PersonGet returns one person subject to the genealogy privacy rules.
func PersonGet(svc persons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "person service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PersonUpdate mutates the person fields for the genealogy owner.
func PersonUpdate(svc persons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "person service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePersonRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		gender, err := parseGender(body.Gender)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		birthDate, err := parseDate(body.BirthDate, "birth_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deathDate, err := parseDate(body.DeathDate, "death_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), userID, id, persons.UpdatePersonInput{
			Name:       body.Name,
			Gender:     gender,
			BirthDate:  birthDate,
			DeathDate:  deathDate,
			BirthPlace: body.BirthPlace,
			DeathPlace: body.DeathPlace,
			Occupation: body.Occupation,
			Biography:  body.Biography,
			PhotoURL:   body.PhotoURL,
			Generation: body.Generation,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PersonDelete removes the person with its relationships and events.
func PersonDelete(svc persons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "person service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
