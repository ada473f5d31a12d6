package routes

import (
	"net/http"

	"github.com/AhmedZafar5533/marbo-go/app/handlers"
	"github.com/AhmedZafar5533/marbo-go/app/middlewares"
	sessionsutil "github.com/AhmedZafar5533/marbo-go/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Auth     *handlers.AuthHandler
	Cookies  sessionsutil.SessionStore
	State    *sessionsutil.State
	CSRFKey  []byte
	Secure   bool
	Logger   *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	router := mux.NewRouter()

	router.Use(middlewares.LoggingMiddleware(deps.Logger))
	router.Use(middlewares.SessionSyncMiddleware(deps.Cookies, deps.State))

	router.HandleFunc("/cart", deps.Cart.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/cart/add", deps.Cart.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/cart/remove", deps.Cart.RemoveItem).Methods(http.MethodPost)
	router.HandleFunc("/cart/update", deps.Cart.UpdateItem).Methods(http.MethodPost)
	router.HandleFunc("/cart/clear", deps.Cart.ClearCart).Methods(http.MethodPost)

	router.HandleFunc("/auth/request-code", deps.Auth.RequestCode).Methods(http.MethodPost)
	router.HandleFunc("/auth/verify-code", deps.Auth.VerifyCode).Methods(http.MethodPost)
	router.HandleFunc("/auth/merge", deps.Auth.RetryMerge).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", deps.Auth.Logout).Methods(http.MethodPost)

	router.HandleFunc("/checkout/summary", deps.Checkout.GetSummary).Methods(http.MethodGet)
	router.HandleFunc("/checkout/place-order", deps.Checkout.PlaceOrder).Methods(http.MethodPost)

	router.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CSRF-Token", csrf.Token(r))
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	protect := csrf.Protect(deps.CSRFKey, csrf.Secure(deps.Secure), csrf.Path("/"))
	return protect(router)
}
