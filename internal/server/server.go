package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agility/internal/authz"
	"agility/internal/config"
	"agility/internal/handler"
	"agility/internal/identity"
	"agility/internal/middleware"
	"agility/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup Gin
	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.ClientOrigin))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Identity resolution and authorization
	verifier := identity.NewJWTVerifier(identity.VerifierConfig{
		Audience: cfg.TokenAudience,
		Secret:   []byte(cfg.TokenSecret),
	})
	resolver := identity.NewResolver(verifier, userRepo)
	engine := authz.NewEngine(membershipRepo, sprintRepo, taskRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(resolver)
	projectHandler := handler.NewProjectHandler(projectRepo, membershipRepo, engine)
	teamHandler := handler.NewTeamHandler(membershipRepo, userRepo, engine)
	sprintHandler := handler.NewSprintHandler(sprintRepo, engine)
	taskHandler := handler.NewTaskHandler(taskRepo, engine)

	// Public routes
	r.POST("/users", userHandler.SignIn)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require a resolvable identity token
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(resolver))
	{
		authorized.GET("/me", userHandler.Me)
		authorized.GET("/memberstatus", teamHandler.MemberStatus)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/projects", projectHandler.GetAll)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)

		// Team routes
		authorized.GET("/projects/:id/team", teamHandler.GetTeam)
		authorized.POST("/projects/:id/team", teamHandler.AddMember)
		authorized.PUT("/projects/:id/team/:user_id", teamHandler.SetRole)
		authorized.DELETE("/projects/:id/team/:user_id", teamHandler.RemoveMember)

		// Sprint routes
		authorized.POST("/projects/:id/sprints", sprintHandler.Create)
		authorized.GET("/projects/:id/sprints", sprintHandler.GetByProject)
		authorized.GET("/sprints/:id", sprintHandler.GetByID)
		authorized.PUT("/sprints/:id", sprintHandler.Update)
		authorized.DELETE("/sprints/:id", sprintHandler.Delete)

		// Task routes
		authorized.POST("/sprints/:id/tasks", taskHandler.Create)
		authorized.GET("/sprints/:id/tasks", taskHandler.GetBySprint)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.PUT("/tasks/:id/notes", taskHandler.UpdateNotes)
		authorized.PUT("/tasks/:id/blocks", taskHandler.UpdateBlocks)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(cfg.DBUser), url.QueryEscape(cfg.DBPassword),
		cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
