package di

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partycurrency/payment-service/internal/auth"
	"github.com/partycurrency/payment-service/internal/config"
	"github.com/partycurrency/payment-service/internal/infrastructure/api/handlers"
	"github.com/partycurrency/payment-service/internal/infrastructure/database/repositories"
	"github.com/partycurrency/payment-service/internal/infrastructure/monnify"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
)

type Container struct {
	AuthHandler     *handlers.AuthHandler
	EventHandler    *handlers.EventHandler
	PaymentHandler  *handlers.PaymentHandler
	MerchantHandler *handlers.MerchantHandler

	ReconcileInteractor *interactor.ReconcileInteractor

	TokenIssuer     *auth.TokenIssuer
	FrontendBaseURL string
	WebhookSecret   string
}

// NewContainer creates a new Container instance.
func NewContainer(db *pgxpool.Pool, cfg *config.Config) *Container {
	transactionRepository := repositories.NewTransactionRepositoryImpl(db)
	eventRepository := repositories.NewEventRepositoryImpl(db)
	userRepository := repositories.NewUserRepositoryImpl(db)

	provider := monnify.NewClient(cfg.Monnify)
	issuer := auth.NewTokenIssuer(cfg.Auth)

	callbackURL := cfg.Server.PublicBaseURL + "/api/v1/payments/callback"

	transactionInteractor := interactor.NewTransactionInteractor(
		transactionRepository, eventRepository, provider, cfg.Monnify.ContractCode, callbackURL)
	reconcileInteractor := interactor.NewReconcileInteractor(
		transactionRepository, userRepository, provider, cfg.Frontend.BaseURL)
	eventInteractor := interactor.NewEventInteractor(eventRepository)
	userInteractor := interactor.NewUserInteractor(userRepository, issuer)
	merchantInteractor := interactor.NewMerchantInteractor(eventRepository, provider)

	return &Container{
		AuthHandler:     handlers.NewAuthHandler(userInteractor),
		EventHandler:    handlers.NewEventHandler(eventInteractor),
		PaymentHandler:  handlers.NewPaymentHandler(transactionInteractor, reconcileInteractor),
		MerchantHandler: handlers.NewMerchantHandler(merchantInteractor),

		ReconcileInteractor: reconcileInteractor,

		TokenIssuer:     issuer,
		FrontendBaseURL: cfg.Frontend.BaseURL,
		WebhookSecret:   cfg.Monnify.SecretKey,
	}
}
