package controllers

import (
	"net/http"
	"strings"

	"github.com/skillearn/skillearn-backend/api/responses"
	"github.com/skillearn/skillearn-backend/api/validators"
	"github.com/skillearn/skillearn-backend/internal/accounts"
	"github.com/skillearn/skillearn-backend/internal/referrals"
	"github.com/skillearn/skillearn-backend/pkg/logger"
)

type linkReferralRequest struct {
	ReferralCode string `json:"referral_code" validate:"required,min=4,max=16"`
}

type referralView struct {
	UserID     string `json:"user_id"`
	ReferrerID string `json:"referrer_id"`
}

// LinkReferral attaches the caller under the agent owning the submitted
// referral code. An agent gets at most one referrer, ever.
func LinkReferral(accountsSvc accounts.Service, referralsSvc referrals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body linkReferralRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		referrer, err := accountsSvc.Resolve(r.Context(), accounts.Selector{
			ReferralCode: strings.ToUpper(strings.TrimSpace(body.ReferralCode)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		edge, err := referralsSvc.Link(r.Context(), userID, referrer.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, referralView{
			UserID:     edge.UserID.String(),
			ReferrerID: edge.ReferrerID.String(),
		})
	}
}
