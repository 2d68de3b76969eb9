package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/meetme/internal/api/handler"
	"github.com/Freeeeeet/meetme/internal/api/middleware"
	"github.com/Freeeeeet/meetme/internal/config"
)

// Setup собирает gin engine со всеми маршрутами
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "MeetMe backend is running"})
	})

	// WebSocket без ограничения частоты: соединение живёт долго
	r.GET("/ws/:user_id", h.WS.Notifications)
	r.GET("/ws/chat/:user_id", h.WS.Chat)

	api := r.Group("")
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		api.POST("/accounts", h.User.Register)
		api.POST("/login", h.User.Login)
		api.GET("/users/:email", h.User.GetByEmail)
		api.PUT("/users/:email/telegram", h.User.LinkTelegram)
		api.GET("/users/username/:username", h.User.GetByUsername)

		api.POST("/classes", h.Class.Create)
		api.GET("/classes", h.Class.List)
		api.GET("/classes/:course_id", h.Class.Get)
		api.DELETE("/classes/:course_id", h.Class.Delete)
		api.GET("/classes/:course_id/students", h.Class.Students)
		api.POST("/enrollments", h.Class.Enroll)
		api.GET("/enrollments/student/:student_email", h.Class.StudentClasses)
		api.GET("/professor-email/from-course/:course_id", h.Class.ProfessorEmail)

		api.POST("/slots", h.Slot.Add)
		api.GET("/slots/:course_id", h.Slot.ByCourse)
		api.POST("/available-slots", h.Slot.Save)
		api.GET("/available-slots", h.Slot.Find)
		api.DELETE("/available-slots", h.Slot.Withdraw)
		api.DELETE("/available-slots/delete", h.Slot.Withdraw)

		appointments := api.Group("/appointments")
		{
			appointments.POST("", h.Appointment.Book)
			appointments.GET("", h.Appointment.ByStudent)
			appointments.GET("/:id", h.Appointment.Get)
			appointments.DELETE("/:id", h.Appointment.Cancel)
			appointments.POST("/:id/reschedule", h.Appointment.Reschedule)
			appointments.GET("/student/:email", h.Appointment.ForStudent)
			appointments.GET("/student/:email/calendar.ics", h.Export.StudentCalendar)
			appointments.GET("/professor/:course_id", h.Appointment.ForCourse)
			appointments.GET("/professor/:course_id/export", h.Export.CourseWorkbook)
		}
		api.GET("/get_schedule", h.Appointment.Schedule)

		api.GET("/notifications/:id", h.Notification.List)
		api.POST("/notifications/:id/mark-read", h.Notification.MarkRead)

		api.GET("/chat/history", h.Chat.History)
	}

	return r
}
