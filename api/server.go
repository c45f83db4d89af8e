package api

import (
	"context"
	"fmt"
	"os"

	"github.com/alex-pricope/campaign-voting/api/controllers"
	"github.com/alex-pricope/campaign-voting/api/transport"
	"github.com/alex-pricope/campaign-voting/checkout"
	"github.com/alex-pricope/campaign-voting/logging"
	"github.com/alex-pricope/campaign-voting/payment"
	"github.com/alex-pricope/campaign-voting/storage"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

// Catalog bundles the read side the checkout needs.
type Catalog struct {
	Candidates storage.CandidateStorage
	Coupons    storage.CouponStorage
	close      func() error
}

func (c *Catalog) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// NewCatalog builds the candidate and coupon storage for the configured backend.
func NewCatalog(ctx context.Context, cfg StorageConfig) (*Catalog, error) {
	switch cfg.Backend {
	case storage.BackendMemory:
		return &Catalog{
			Candidates: storage.NewMemoryCandidateStorage(),
			Coupons:    storage.NewMemoryCouponStorage(),
		}, nil

	case storage.BackendDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load AWS config")
		}
		dynamoClient := dynamodb.NewFromConfig(awsCfg)
		return &Catalog{
			Candidates: &storage.DynamoCandidateStorage{Client: dynamoClient, TableName: cfg.TableNameCandidates},
			Coupons:    &storage.DynamoCouponStorage{Client: dynamoClient, TableName: cfg.TableNameCoupons},
		}, nil

	case storage.BackendSQLite, storage.BackendPostgres:
		db, err := storage.OpenSQL(cfg.Backend, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Catalog{
			Candidates: &storage.SQLCandidateStorage{DB: db, Backend: cfg.Backend},
			Coupons:    &storage.SQLCouponStorage{DB: db, Backend: cfg.Backend},
			close:      db.Close,
		}, nil
	}

	return nil, errors.Wrapf(storage.ErrUnknownBackend, "%q", cfg.Backend)
}

func NewConfirmer(cfg PaymentConfig) payment.Confirmer {
	if cfg.Endpoint == "" {
		logging.Log.Warn("PAYMENT: no payment.endpoint configured, confirmations are only logged")
		return payment.LogConfirmer{}
	}
	return payment.NewHTTPConfirmer(cfg.Endpoint, cfg.Timeout)
}

// RegisterControllers wires every controller onto the engine.
func RegisterControllers(r *gin.Engine, catalog *Catalog, registry *checkout.Registry) {
	checkoutController := controllers.NewCheckoutController(registry)
	checkoutController.RegisterRoutes(r)
	candidateController := controllers.NewCandidateMetaController(catalog.Candidates)
	candidateController.RegisterRoutes(r)
	couponController := controllers.NewCouponMetaController(catalog.Coupons)
	couponController.RegisterRoutes(r)
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	catalog, err := NewCatalog(context.Background(), s.config.StorageConfig)
	if err != nil {
		logging.Log.Errorf("failed to create storage: %v", err)
		panic("failed to create storage")
	}
	defer catalog.Close()

	registry := checkout.NewRegistry(catalog.Coupons, catalog.Candidates, NewConfirmer(s.config.PaymentConfig), s.config.SessionTTL)
	RegisterControllers(r, catalog, registry)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		warnSessionsNotShared()
		startLambda(r)
	}
}

// warnSessionsNotShared flags that checkout sessions live in one process and
// are only found by requests that reach the same Lambda instance.
func warnSessionsNotShared() {
	logging.Log.Warn("CHECKOUT: sessions are held in memory; run the lambda with reserved concurrency 1 or requests may miss their session")
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
