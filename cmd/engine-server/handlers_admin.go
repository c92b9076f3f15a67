package main

import (
	"net/http"

	"quant-casino/internal/app/play"
)

func topupHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			AccountID string `json:"accountId"`
			Amount    int64  `json:"amount"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		if in.AccountID == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := svc.TopUp(r.Context(), in.AccountID, in.Amount)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}
