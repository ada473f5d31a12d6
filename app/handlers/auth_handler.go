package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AhmedZafar5533/marbo-go/app/gateway"
	"github.com/AhmedZafar5533/marbo-go/app/services"
	sessionsutil "github.com/AhmedZafar5533/marbo-go/app/utils/sessions"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// AuthHandler proxies the two opaque OTP endpoints and owns the
// authenticated-session transitions: a verified code flips the session flag
// and runs the one-shot cart merge, logout drops the session and the local
// cart cache.
type AuthHandler struct {
	auth    gateway.AuthGateway
	cookies sessionsutil.SessionStore
	state   *sessionsutil.State
	engine  *services.Reconciler
	render  *render.Render
	logger  *zap.Logger
}

func NewAuthHandler(
	auth gateway.AuthGateway,
	cookies sessionsutil.SessionStore,
	state *sessionsutil.State,
	engine *services.Reconciler,
	render *render.Render,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookies,
		state:   state,
		engine:  engine,
		render:  render,
		logger:  logger,
	}
}

type otpRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code,omitempty"`
}

func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identifier == "" {
		h.render.JSON(w, http.StatusBadRequest, errorBody("identifier is required"))
		return
	}

	if err := h.auth.RequestCode(r.Context(), req.Identifier); err != nil {
		h.logger.Warn("otp request failed", zap.Error(err))
		h.render.JSON(w, http.StatusBadGateway, errorBody("could not send verification code"))
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "verification code sent"})
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identifier == "" || req.Code == "" {
		h.render.JSON(w, http.StatusBadRequest, errorBody("identifier and code are required"))
		return
	}

	if err := h.auth.VerifyCode(r.Context(), req.Identifier, req.Code); err != nil {
		h.logger.Info("otp verification rejected", zap.Error(err))
		h.render.JSON(w, http.StatusUnauthorized, errorBody("verification failed"))
		return
	}

	if err := h.cookies.SetAuthenticated(w, r, req.Identifier); err != nil {
		h.logger.Error("failed to persist session", zap.Error(err))
		h.render.JSON(w, http.StatusInternalServerError, errorBody("could not establish session"))
		return
	}
	h.state.SetAuthenticated(true)

	// The merge runs once per login. If it fails the session stays
	// authenticated with the pre-merge cart; the client may retry by calling
	// the merge endpoint again.
	cart, mergeErr := h.engine.MergeOnLogin(r.Context())
	body := map[string]any{
		"success": true,
		"cart":    cart,
	}
	if mergeErr != nil {
		h.logger.Warn("cart merge failed after login", zap.Error(mergeErr))
		body["cartMerged"] = false
		body["message"] = "logged in, but your cart could not be synced yet"
	} else {
		body["cartMerged"] = true
	}
	h.render.JSON(w, http.StatusOK, body)
}

// RetryMerge lets a client re-run a merge that failed at login.
func (h *AuthHandler) RetryMerge(w http.ResponseWriter, r *http.Request) {
	if !h.state.Authenticated() {
		h.render.JSON(w, http.StatusUnauthorized, errorBody("not logged in"))
		return
	}

	cart, err := h.engine.MergeOnLogin(r.Context())
	if err != nil {
		h.logger.Warn("cart merge retry failed", zap.Error(err))
		h.render.JSON(w, http.StatusBadGateway, errorBody("cart sync failed"))
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"success": true, "cart": cart})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.cookies.ClearSession(w, r); err != nil {
		h.logger.Warn("failed to clear session cookie", zap.Error(err))
	}
	h.state.SetAuthenticated(false)
	h.engine.ResetLocal(r.Context())

	h.render.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "logged out"})
}
