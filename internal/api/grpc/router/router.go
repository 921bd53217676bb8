package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	_ "github.com/dtroode/admissions-server/internal/api/grpc/codec"
	"github.com/dtroode/admissions-server/internal/api/grpc/handler"
	"github.com/dtroode/admissions-server/internal/api/grpc/middleware"
	"github.com/dtroode/admissions-server/internal/api/grpc/rpc"
	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/metrics"
	"github.com/dtroode/admissions-server/internal/model"
)

// Router builds the gRPC server with its interceptors and registered services.
type Router struct {
	provisioning   handler.ProvisioningService
	account        handler.AccountService
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	metrics        *metrics.Metrics
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
func New(
	provisioning handler.ProvisioningService,
	account handler.AccountService,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		provisioning:   provisioning,
		account:        account,
		tokenManager:   tokenManager,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// requiresAuth matches every admission method. Health checks stay anonymous.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return strings.HasPrefix(c.FullMethod(), "/"+rpc.ServiceName+"/")
}

// Register creates the gRPC server with recovery, logging and
// authentication interceptors and registers all services on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger, r.metrics)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(r.recover)),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	r.registerAdmissionRoutes(s)
	r.registerHealthRoutes(s)

	return s
}

// Shutdown marks every service as not serving.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerAdmissionRoutes(server *grpc.Server) {
	admissionHandler := handler.NewAdmission(r.provisioning, r.account, r.contextManager, r.logger)
	rpc.RegisterAdmissionServer(server, admissionHandler)
}

func (r *Router) registerHealthRoutes(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	r.health.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func (r *Router) recover(_ context.Context, p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal server error")
}
