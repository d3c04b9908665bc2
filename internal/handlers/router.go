package handlers

import (
	"net/http"

	"mamoolah/internal/config"
	"mamoolah/internal/db"
	"mamoolah/internal/middleware"
	"mamoolah/internal/store"
	"mamoolah/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	companies    CompanyStore
	roles        RoleStore
	accounts     AccountStore
	entries      EntryStore
	transactions TransactionStore
	suppliers    SupplierStore
	clients      ClientStore
	invoices     InvoiceStore
	audit        AuditStore
	service      PostingService
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, companies CompanyStore, roles RoleStore, accounts AccountStore, entries EntryStore, transactions TransactionStore, suppliers SupplierStore, clients ClientStore, invoices InvoiceStore, audit AuditStore, service PostingService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		companies:    companies,
		roles:        roles,
		accounts:     accounts,
		entries:      entries,
		transactions: transactions,
		suppliers:    suppliers,
		clients:      clients,
		invoices:     invoices,
		audit:        audit,
		service:      service,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Route("/companies", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/", h.CreateCompany)
		r.Get("/", h.ListCompanies)

		r.Route("/{companyID}", func(r chi.Router) {
			member := middleware.RequireMember(h.roles, store.RoleEmployee)
			admin := middleware.RequireMember(h.roles, store.RoleAdmin)
			owner := middleware.RequireMember(h.roles, store.RoleOwner)

			r.With(member).Get("/", h.GetCompany)
			r.With(owner).Put("/", h.UpdateCompany)
			r.With(admin).Get("/roles", h.ListCompanyRoles)
			r.With(owner).Post("/roles", h.AddCompanyRole)

			r.Route("/accounts", func(r chi.Router) {
				r.With(admin).Post("/", h.CreateAccount)
				r.With(member).Get("/", h.ListAccounts)
				r.With(member).Get("/self-check", h.SelfCheck)
				r.With(member).Get("/{id}", h.GetAccount)
				r.With(admin).Put("/{id}", h.UpdateAccount)
				r.With(admin).Delete("/{id}", h.DeleteAccount)
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.With(member).Post("/", h.CreateSupplier)
				r.With(member).Get("/", h.ListSuppliers)
				r.With(member).Get("/{id}", h.GetSupplier)
				r.With(member).Put("/{id}", h.UpdateSupplier)
				r.With(admin).Delete("/{id}", h.DeleteSupplier)
			})

			r.Route("/clients", func(r chi.Router) {
				r.With(member).Post("/", h.CreateClient)
				r.With(member).Get("/", h.ListClients)
				r.With(member).Get("/{id}", h.GetClient)
				r.With(member).Put("/{id}", h.UpdateClient)
				r.With(admin).Delete("/{id}", h.DeleteClient)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.With(member).Post("/", h.CreateInvoice)
				r.With(member).Get("/", h.ListInvoices)
				r.With(member).Get("/{id}", h.GetInvoice)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.With(member).Post("/", h.PostTransaction)
				r.With(member).Get("/", h.ListTransactions)
				r.With(member).Get("/{id}", h.GetTransaction)
				r.With(member).Put("/{id}", h.UpdateTransaction)
				r.With(admin).Delete("/{id}", h.DeleteTransaction)
			})
		})
	})

	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/audit", h.ListAuditLogs)
	router.Get("/ws/balances", h.WSBalances)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
