package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"surveyhome.org/respondent-web/internal/eq"
	mw "surveyhome.org/respondent-web/internal/middleware"
	"surveyhome.org/respondent-web/internal/rhsvc"
	"surveyhome.org/respondent-web/internal/upstream"
	"surveyhome.org/respondent-web/internal/validate"
)

// IndexHandler renders the access-code entry page.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, "index", basePage(r, "index.title"))
}

// IndexPostHandler validates the submitted access code and, when the case is
// live, hands the respondent to the survey application with a signed launch
// token. An unrecognized code re-renders the entry page with 202 so monitors
// can tell bad codes from bad deployments.
func IndexPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	uac, err := validate.JoinUAC(r.Form, mw.Lang(r))
	if err != nil {
		logger.Warn("attempt to use a malformed access code", zap.String("client_ip", mw.ClientIP(r)))
		sess.AddFlash(flashText(err.Error(), "ERROR", "BAD_CODE", "uac"))
		renderPage(w, r, http.StatusOK, "index", basePage(r, "index.title"))
		return
	}

	claims, err := caseClient.GetUACClaims(r.Context(), validate.HashUAC(uac))
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			logger.Warn("attempt to use an invalid access code", zap.String("client_ip", mw.ClientIP(r)))
			sess.AddFlash(flash(r, "ERROR", "INVALID_CODE", "uac", "index.error.invalid"))
			renderPage(w, r, http.StatusAccepted, "index", basePage(r, "index.title"))
			return
		}
		serverError(w, r, err)
		return
	}

	if err := rhsvc.ValidateCase(claims); err != nil {
		if errors.Is(err, rhsvc.ErrInactiveCase) {
			logger.Info("attempt to use an inactive access code",
				zap.String("client_ip", mw.ClientIP(r)),
				zap.String("case_id", claims.CaseID))
			renderPage(w, r, http.StatusOK, "survey-complete", basePage(r, "complete.title"))
			return
		}
		logger.Error("service failed to build eq payload",
			zap.String("case_id", claims.CaseID), zap.Error(err))
		renderPage(w, r, http.StatusInternalServerError, "error-500", basePage(r, "error.title"))
		return
	}

	eqClaims, err := eq.Build(claims, mw.Region(r), appCfg.AccountServiceURL, nowFn())
	if err != nil {
		logger.Error("service failed to build eq payload",
			zap.String("case_id", claims.CaseID), zap.Error(err))
		renderPage(w, r, http.StatusInternalServerError, "error-500", basePage(r, "error.title"))
		return
	}
	token, err := eqSigner.Sign(eqClaims)
	if err != nil {
		logger.Error("service failed to build eq payload",
			zap.String("case_id", claims.CaseID), zap.Error(err))
		renderPage(w, r, http.StatusInternalServerError, "error-500", basePage(r, "error.title"))
		return
	}

	if err := caseClient.SurveyLaunched(r.Context(), claims.QuestionnaireID, claims.CaseID); err != nil {
		serverError(w, r, err)
		return
	}

	logger.Info("redirecting to eq",
		zap.String("case_id", claims.CaseID),
		zap.String("tx_id", eqClaims.TxID))
	http.Redirect(w, r, appCfg.EQURL+token, http.StatusFound)
}

// flashText wraps an already-localized message, e.g. from a validator.
func flashText(text, level, msgType, field string) mw.FlashMessage {
	return mw.FlashMessage{Text: text, Level: level, Type: msgType, Field: field}
}
