package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/email"
	"library-backend/internal/shared/audit"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"

	authorHandler "library-backend/internal/domains/author/handler"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"
	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Clock       audit.Clock
	Email       email.EmailService

	UserRepo        userRepo.RepositoryInterface
	AuthorRepo      authorRepo.RepositoryInterface
	AuthorQuery     authorRepo.QueryServiceInterface
	BookRepo        bookRepo.RepositoryInterface
	BookQuery       bookRepo.QueryServiceInterface

	UserService    *userService.UserService
	AuthorFactory  *authorService.FactoryService
	AuthorService  *authorService.AuthorService
	BookService    *bookService.BookService

	UserHandler   *userHandler.UserHandler
	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
}

// NewContainer initializes every dependency; an error here means the
// application must not start.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initDomains()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	maxLifetime, maxIdle, healthCheck, retryDelay, connectTimeout, maxRetries := c.Config.DatabaseTimeouts()

	c.DB = database.NewPostgresDB(&database.DBConfig{
		Host:              c.Config.Database.Host,
		Port:              c.Config.Database.Port,
		Username:          c.Config.Database.User,
		Password:          c.Config.Database.Password,
		DBName:            c.Config.Database.Database,
		SSLMode:           c.Config.Database.SSLMode,
		MaxConns:          int32(c.Config.Database.MaxConns),
		MinConns:          int32(c.Config.Database.MinConns),
		MaxConnLifetime:   maxLifetime,
		MaxConnIdleTime:   maxIdle,
		HealthCheckPeriod: healthCheck,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		ConnectTimeout:    connectTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.DB.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	redisCache := infraCache.NewRedisCache(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)
	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	c.Clock = audit.SystemClock()
	c.Email = email.NewSMTPEmailService(c.Config.SMTP.Host, c.Config.SMTP.Port, c.Config.SMTP.From)

	return nil
}

func (c *Container) initDomains() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.AuthorQuery = authorRepo.NewPostgresQueryService(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.BookQuery = bookRepo.NewPostgresQueryService(pool)

	c.UserService = userService.NewUserService(c.Clock, c.UserRepo)
	c.AuthorFactory = authorService.NewFactoryService(c.AuthorRepo, c.AuthorQuery)
	c.AuthorService = authorService.NewAuthorService(c.AuthorQuery)
	c.BookService = bookService.NewBookService(
		c.Clock, c.BookRepo, c.BookQuery, c.AuthorFactory, c.UserService, c.Cache, c.AsynqClient)

	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
}

// Cleanup releases infrastructure connections on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("close asynq client", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
