package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/config"
	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

const maxRequestBodyBytes = 4 << 20

type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Blogs    *service.BlogService
	Comments *service.CommentService
	Likes    *service.LikeService
}

// NewRouter declares every route together with its gates. Ordering is
// explicit: Authenticate resolves the identity, Authorize checks the
// route's allowed-role set, then the handler runs.
func NewRouter(pg *db.Postgres, svcs Services, cfg config.ServerConfig, production bool, logger zerolog.Logger) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(bodyLimit(maxRequestBodyBytes))
	r.Use(CORSMiddleware(cfg.WhitelistOrigins, true))
	r.Use(RateLimit(NewRateLimiter(intOr(cfg.RateLimitPerMin, 60), time.Minute, intOr(cfg.RateLimitBurst, 10))))

	authHandler := NewAuthHandler(svcs.Auth, logger)
	userHandler := NewUserHandler(svcs.Users, logger)
	blogHandler := NewBlogHandler(svcs.Blogs, logger)
	commentHandler := NewCommentHandler(svcs.Comments, logger)
	likeHandler := NewLikeHandler(svcs.Likes, logger)

	authn := Authenticate(svcs.Auth)
	adminOnly := Authorize(pg, model.RoleAdmin)
	anyRole := Authorize(pg, model.RoleAdmin, model.RoleUser)

	r.GET("/ping", Ping)

	v1 := r.Group("/api/v1")
	v1.GET("/", Root)

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.Refresh)
	auth.POST("/logout", authn, authHandler.Logout)

	users := v1.Group("/users")
	users.GET("/current", authn, anyRole, userHandler.GetCurrent)
	users.PUT("/current", authn, anyRole, userHandler.UpdateCurrent)
	users.DELETE("/current", authn, anyRole, userHandler.DeleteCurrent)
	users.GET("", authn, adminOnly, userHandler.List)
	users.GET("/:userId", authn, adminOnly, userHandler.Get)
	users.DELETE("/:userId", authn, adminOnly, userHandler.Delete)

	blogs := v1.Group("/blogs")
	blogs.POST("", authn, adminOnly, blogHandler.Create)
	blogs.GET("", authn, anyRole, blogHandler.List)
	blogs.GET("/user/:userId", authn, anyRole, blogHandler.ListByAuthor)
	blogs.GET("/:slug", authn, anyRole, blogHandler.GetBySlug)
	blogs.PUT("/:blogId", authn, adminOnly, blogHandler.Update)
	blogs.DELETE("/:blogId", authn, adminOnly, blogHandler.Delete)

	comments := v1.Group("/comments")
	comments.POST("/blog/:blogId", authn, anyRole, commentHandler.Create)
	comments.GET("/blog/:blogId", authn, anyRole, commentHandler.ListByBlog)
	comments.DELETE("/:commentId", authn, anyRole, commentHandler.Delete)

	likes := v1.Group("/likes")
	likes.POST("/blog/:blogId", authn, anyRole, likeHandler.Like)
	likes.DELETE("/blog/:blogId", authn, anyRole, likeHandler.Unlike)

	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func intOr(raw string, fallback int) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
