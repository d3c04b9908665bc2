package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mamoolah/internal/config"
	"mamoolah/internal/db"
	"mamoolah/internal/handlers"
	"mamoolah/internal/services"
	"mamoolah/internal/store"
	"mamoolah/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	companies := store.NewCompanyStore(database)
	roles := store.NewRoleStore(database)
	accounts := store.NewAccountStore(database)
	entries := store.NewEntryStore(database)
	transactions := store.NewTransactionStore(database)
	suppliers := store.NewSupplierStore(database)
	clients := store.NewClientStore(database)
	invoices := store.NewInvoiceStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	service := services.NewPostingService(txRunner, companies, accounts, entries, transactions, invoices, audit, database, hub)

	handler := handlers.New(txRunner, cfg, users, companies, roles, accounts, entries, transactions, suppliers, clients, invoices, audit, service, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("bookkeeping API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
