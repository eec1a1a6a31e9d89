package controllers

import (
	"net/http"

	"github.com/rootline/rootline-backend/api/responses"
	"github.com/rootline/rootline-backend/api/validators"
	"github.com/rootline/rootline-backend/internal/admin"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
	"github.com/rootline/rootline-backend/pkg/logger"
)

type updateUserStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateUserStatus bans or reactivates another user's account.
func AdminUpdateUserStatus(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAccountStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status"))
			return
		}

		result, err := svc.UpdateUserStatus(r.Context(), userID, targetID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
