package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashishpimple94/hostel-backend/config"
	"github.com/ashishpimple94/hostel-backend/database"
	"github.com/ashishpimple94/hostel-backend/handlers"
	"github.com/ashishpimple94/hostel-backend/middlewares"
	"github.com/ashishpimple94/hostel-backend/services"
)

// Register wires all HTTP routes under /api.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger) {
	alloc := services.NewAllocationService(database.DB, log)
	pending := services.NewPendingFeeRefresher(database.DB, log)

	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	rooms := handlers.NewRoomHandler(alloc)
	students := handlers.NewStudentHandler()
	fees := handlers.NewFeeHandler(pending)
	complaints := handlers.NewComplaintHandler()
	attendance := handlers.NewAttendanceHandler()
	notices := handlers.NewNoticeHandler()
	dash := handlers.NewDashboardHandler()

	e.GET("/health", handlers.Health)

	api := e.Group("/api")

	// Public auth
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	adminWarden := middlewares.RequireRole("admin", "warden")
	adminAccountant := middlewares.RequireRole("admin", "accountant")
	adminOnly := middlewares.RequireRole("admin")

	me := api.Group("/auth", authMW)
	me.GET("/me", auth.Me)
	me.PUT("/updatepassword", auth.UpdatePassword)

	// Rooms
	r := api.Group("/rooms", authMW)
	r.GET("", rooms.List)
	r.GET("/available", rooms.Available)
	r.GET("/availability-stats", rooms.AvailabilityStats)
	r.GET("/:id", rooms.Get)
	r.POST("", rooms.Create, adminWarden)
	r.PUT("/:id", rooms.Update, adminWarden)
	r.POST("/:id/allocate", rooms.Allocate, adminWarden)
	r.POST("/:id/deallocate", rooms.Deallocate, adminWarden)
	r.DELETE("/:id", rooms.Delete, adminOnly)

	// Students
	s := api.Group("/students", authMW)
	s.GET("", students.List, adminWarden)
	s.GET("/:id", students.Get)
	s.GET("/:id/ledger", students.Ledger)
	s.POST("", students.Create, adminWarden)
	s.PUT("/:id", students.Update, adminWarden)
	s.DELETE("/:id", students.Delete, adminOnly)

	// Fees
	f := api.Group("/fees", authMW)
	f.GET("", fees.List)
	f.GET("/:id", fees.Get)
	f.GET("/student/:studentId", fees.ByStudent)
	f.POST("", fees.Create, adminAccountant)
	f.PUT("/:id", fees.Update, adminAccountant)
	f.PUT("/:id/pay", fees.Pay, adminAccountant)
	f.DELETE("/:id", fees.Delete, adminOnly)

	// Complaints
	cp := api.Group("/complaints", authMW)
	cp.GET("", complaints.List)
	cp.GET("/:id", complaints.Get)
	cp.POST("", complaints.Create)
	cp.PUT("/:id", complaints.Update, adminWarden)
	cp.PUT("/:id/assign", complaints.Assign, adminWarden)
	cp.PUT("/:id/status", complaints.UpdateStatus, middlewares.RequireRole("admin", "warden", "maintenance"))
	cp.DELETE("/:id", complaints.Delete, adminOnly)

	// Attendance
	a := api.Group("/attendance", authMW)
	a.GET("", attendance.List)
	a.GET("/stats", attendance.Stats)
	a.GET("/today", attendance.Today)
	a.GET("/student/:studentId", attendance.ByStudent)
	a.POST("", attendance.Mark, adminWarden)
	a.POST("/bulk", attendance.MarkBulk, adminWarden)

	// Notices
	n := api.Group("/notices", authMW)
	n.GET("", notices.List)
	n.GET("/:id", notices.Get)
	n.POST("", notices.Create, adminWarden)
	n.PUT("/:id", notices.Update, adminWarden)
	n.DELETE("/:id", notices.Delete, adminOnly)

	// Dashboard
	d := api.Group("/dashboard", authMW)
	d.GET("/stats", dash.Stats)
	d.GET("/room-occupancy", dash.RoomOccupancy, adminWarden)
	d.GET("/fee-collection", dash.FeeCollection, adminAccountant)
	d.GET("/fee-collection/export", dash.FeeCollectionExport, adminAccountant)
}
