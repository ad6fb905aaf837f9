package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medpal/medpal-api/internal/config"
	"github.com/medpal/medpal-api/internal/email"
	adherencehandler "github.com/medpal/medpal-api/internal/handler/adherence"
	appointmenthandler "github.com/medpal/medpal-api/internal/handler/appointment"
	authhandler "github.com/medpal/medpal-api/internal/handler/auth"
	contacthandler "github.com/medpal/medpal-api/internal/handler/contact"
	emergencyhandler "github.com/medpal/medpal-api/internal/handler/emergency"
	familyhandler "github.com/medpal/medpal-api/internal/handler/family"
	healthhandler "github.com/medpal/medpal-api/internal/handler/health"
	medicationhandler "github.com/medpal/medpal-api/internal/handler/medication"
	metrichandler "github.com/medpal/medpal-api/internal/handler/metric"
	reminderhandler "github.com/medpal/medpal-api/internal/handler/reminder"
	"github.com/medpal/medpal-api/internal/middleware"
	"github.com/medpal/medpal-api/internal/repository/postgres"
	"github.com/medpal/medpal-api/internal/router"
	adherenceservice "github.com/medpal/medpal-api/internal/service/adherence"
	appointmentservice "github.com/medpal/medpal-api/internal/service/appointment"
	authservice "github.com/medpal/medpal-api/internal/service/auth"
	contactservice "github.com/medpal/medpal-api/internal/service/contact"
	emergencyservice "github.com/medpal/medpal-api/internal/service/emergency"
	familyservice "github.com/medpal/medpal-api/internal/service/family"
	medicationservice "github.com/medpal/medpal-api/internal/service/medication"
	metricservice "github.com/medpal/medpal-api/internal/service/metric"
	reminderservice "github.com/medpal/medpal-api/internal/service/reminder"
	pkgauth "github.com/medpal/medpal-api/pkg/auth"
	"github.com/medpal/medpal-api/pkg/logger"
	"github.com/medpal/medpal-api/pkg/metrics"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	emailCfg, err := email.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load email config")
	}
	mailer := email.NewService(emailCfg, log)

	m := metrics.NewMetrics("medpal")
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	userRepo := postgres.NewUserRepository(db)
	medRepo := postgres.NewMedicationRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	shareRepo := postgres.NewFamilyShareRepository(db)
	metricRepo := postgres.NewHealthMetricRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	authSvc := authservice.NewService(userRepo, jwtSvc, time.Duration(cfg.JWT.ExpiryHours)*time.Hour, cfg.Reminder.DefaultTimezone, log)
	medSvc := medicationservice.NewService(medRepo, log)
	reminderSvc := reminderservice.NewService(reminderRepo, medRepo, userRepo, outboxRepo, m, log, cfg.Reminder)
	adherenceSvc := adherenceservice.NewService(reminderRepo, m, log, cfg.Reminder)
	appointmentSvc := appointmentservice.NewService(appointmentRepo, log)
	contactSvc := contactservice.NewService(contactRepo, log)
	familySvc := familyservice.NewService(shareRepo, userRepo, outboxRepo, mailer, log)
	metricSvc := metricservice.NewService(metricRepo, log)
	emergencySvc := emergencyservice.NewService(userRepo, medRepo, contactRepo, outboxRepo, mailer, log)

	authMw := middleware.NewAuthMiddleware(jwtSvc)
	r := router.NewRouter(
		authMw,
		log,
		router.Config{
			RequestTimeout:  cfg.Server.RequestTimeout,
			RateLimitPerSec: cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst:  cfg.RateLimit.Burst,
		},
		authhandler.NewHandler(authSvc),
		healthhandler.NewHandler(db),
		medicationhandler.NewHandler(medSvc),
		reminderhandler.NewHandler(reminderSvc),
		adherencehandler.NewHandler(adherenceSvc),
		appointmenthandler.NewHandler(appointmentSvc),
		contacthandler.NewHandler(contactSvc),
		familyhandler.NewHandler(familySvc),
		metrichandler.NewHandler(metricSvc),
		emergencyhandler.NewHandler(emergencySvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting api server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
