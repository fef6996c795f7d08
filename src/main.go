package main

import (
	"bookings/src/boot"
	"bookings/src/config"
	"bookings/src/lib"
	"bookings/src/middlewares"
	"bookings/src/services"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"reflect"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	apiPrefix string = "/api"
)

var isoDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	return ok && services.IsISODate(date)
}

var timeOfDayValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(string)
	return ok && services.IsTimeOfDay(t)
}

// aftertime=Field: the value must sort strictly after the named HH:mm field.
var afterTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	end, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	start := fl.Parent().FieldByName(fl.Param())
	if !start.IsValid() || start.Kind() != reflect.String {
		return false
	}
	return end > start.String()
}

var registerValidatorsOnce sync.Once

func registerValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
				if name == "-" {
					return ""
				}
				return name
			})
			v.RegisterValidation("isodate", isoDateValidatorFunc)
			v.RegisterValidation("hhmm", timeOfDayValidatorFunc)
			v.RegisterValidation("aftertime", afterTimeValidatorFunc)
		}
	})
}

// originAllowed accepts listed origins, and APP_HOST or its subdomains over
// http(s).
func originAllowed(cfg config.Config, origin string) bool {
	for _, o := range cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	host := strings.ToLower(strings.TrimSpace(cfg.AppHost))
	if host == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	h := strings.ToLower(u.Hostname())
	return h == host || strings.HasSuffix(h, "."+host)
}

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	if cfg.IsLocal() {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		return originAllowed(cfg, origin)
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

func setupRouter(cfg config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middlewares.RequestLogger(), middlewares.SecureHeaders, corsMiddleware(cfg))
	router.GET(apiPrefix+"/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	// registered after /health so health checks pass during maintenance
	router.Use(middlewares.MaintenanceMode(cfg.MaintenanceMode))
	return router
}

func apiGroup(g *gin.Engine) *gin.RouterGroup {
	return g.Group(apiPrefix)
}

func newServer(cfg config.Config, verifier middlewares.IdentityVerifier, svc *services.ReservationService) *gin.Engine {
	registerValidators()
	router := setupRouter(cfg)
	authorized := apiGroup(router)
	authorized.Use(middlewares.VerifyIdToken(verifier))
	reservationHandlers(authorized, svc)
	return router
}

func initLogger(cfg config.Config) {
	cwd, _ := os.Getwd()
	logDir := cfg.LogDir
	if !path.IsAbs(logDir) {
		logDir = path.Join(cwd, logDir)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("Could not create log directory %s: %s\n", logDir, err.Error())
		return
	}
	if !cfg.IsProd() {
		gin.ForceConsoleColor()
	}

	f, err := os.OpenFile(path.Join(logDir, "api.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   path.Join(logDir, "server.log"),
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}))
}

func main() {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("Could not load .env: %s\n", err.Error())
		}
	}
	cfg := config.Load()
	initLogger(cfg)
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	if err := boot.EnsureCredentials(ctx, cfg, nil); err != nil {
		log.Printf("[boot] Error retrieving credentials: %s\n", err.Error())
	}

	st, closeStore, err := boot.InitStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[boot] error initializing store: %s\n", err.Error())
	}
	defer closeStore()

	fauth, err := lib.GetFirebaseAuth(ctx, cfg)
	if err != nil {
		log.Fatalf("[boot] error initializing Firebase Auth: %s\n", err.Error())
	}

	svc := services.NewReservationService(st, boot.InitServiceCache(ctx, cfg), boot.InitNotifier(ctx, cfg), cfg)
	router := newServer(cfg, fauth, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("Server forced to shutdown: %s\n", err.Error())
	}
}
