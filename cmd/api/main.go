package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/Kushal-np/SocialMedia/internal/assets"
	"github.com/Kushal-np/SocialMedia/internal/config"
	"github.com/Kushal-np/SocialMedia/internal/db"
	"github.com/Kushal-np/SocialMedia/internal/handlers"
	"github.com/Kushal-np/SocialMedia/internal/middleware"
	"github.com/Kushal-np/SocialMedia/internal/repo"
	"github.com/Kushal-np/SocialMedia/internal/scheduler"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set in prod")
	}

	database, err := db.Connect(
		cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass,
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns,
	)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(cfg.DatabaseURL()); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := repo.NewUserRepo(database)
	followRepo := repo.NewFollowRepo(database)
	postRepo := repo.NewPostRepo(database)
	notifRepo := repo.NewNotificationRepo(database)

	assetClient := assets.NewClient(cfg.AssetStoreURL, cfg.AssetStoreToken)
	if !assetClient.Enabled() {
		slog.Warn("asset store not configured; image upload disabled")
	}

	secret := []byte(cfg.JWTSecret)
	verifier := &middleware.SessionVerifier{Users: userRepo, Secret: secret}

	authH := &handlers.AuthHandler{
		Users:        userRepo,
		Secret:       secret,
		ExpireHours:  cfg.JWTExpireHours,
		SecureCookie: cfg.TLSEnabled(),
	}
	userH := &handlers.UserHandler{Users: userRepo, Follows: followRepo, Assets: assetClient}
	postH := &handlers.PostHandler{Posts: postRepo, Users: userRepo, Assets: assetClient}
	notifH := &handlers.NotificationHandler{Notifs: notifRepo}

	authLimiter := middleware.AuthRateLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/signup", authH.Signup)
			r.Post("/login", authH.Login)
		})
		r.Post("/logout", authH.Logout)
		r.With(verifier.Require).Get("/me", authH.Me)
	})

	r.Route("/post", func(r chi.Router) {
		r.Get("/AllPosts", postH.All)
		r.Group(func(r chi.Router) {
			r.Use(verifier.Require)
			r.Get("/following", postH.Following)
			r.Post("/create", postH.Create)
			r.Delete("/{id}", postH.Delete)
			r.Post("/like/{id}", postH.LikeUnlike)
			r.Post("/comment/{id}", postH.Comment)
			r.Get("/user/{username}", postH.UserPosts)
			r.Get("/likes/{id}", postH.Liked)
		})
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/profile/{username}", userH.GetProfile)
		r.Group(func(r chi.Router) {
			r.Use(verifier.Require)
			r.Get("/suggested", userH.Suggested)
			r.Post("/follow/{id}", userH.FollowUnfollow)
			r.Post("/update", userH.Update)
		})
	})

	r.Route("/notification", func(r chi.Router) {
		r.Use(verifier.Require)
		r.Get("/", notifH.List)
		r.Delete("/", notifH.DeleteAll)
		r.Delete("/{id}", notifH.DeleteOne)
	})

	retention := scheduler.RunRetention(notifRepo, cfg.NotifRetentionDays)
	defer retention.Stop()

	addr := ":" + cfg.Port
	if cfg.TLSEnabled() {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
