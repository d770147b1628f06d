package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kantorkita/presensi-backend-go/internal/config"
	appHTTP "github.com/kantorkita/presensi-backend-go/internal/handler/http"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/cron"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/database"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/jwt"
	"github.com/kantorkita/presensi-backend-go/internal/repository/postgresql"
	calendarService "github.com/kantorkita/presensi-backend-go/internal/service/calendar"
	engineService "github.com/kantorkita/presensi-backend-go/internal/service/engine"
	leaveService "github.com/kantorkita/presensi-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	calendarRepo := postgresql.NewCalendarRepository(db)
	systemLogRepo := postgresql.NewSystemLogRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := calendarService.NewResolver(calendarRepo)
	leaveLookup := leaveService.NewLookup(leaveRepo)

	loc := cfg.Location()
	engine := engineService.NewEngineService(
		txManager,
		attendanceRepo,
		employeeRepo,
		leaveRepo,
		leaveLookup,
		resolver,
		systemLogRepo,
		loc,
	)

	scheduler := cron.NewScheduler(loc)
	if cfg.Engine.CronEnabled {
		jobs := cron.NewAttendanceJobs(engine, leaveRepo, systemLogRepo, loc)
		if err := jobs.RegisterJobs(scheduler); err != nil {
			log.Fatal("Failed to register cron jobs: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	engineHandler := appHTTP.NewEngineHandler(engine, scheduler, systemLogRepo)
	calendarHandler := appHTTP.NewCalendarHandler(resolver)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        cfg.App.Name,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		APIKeyHash:     cfg.Engine.APIKeyHash,
	}, JWTService, engineHandler, calendarHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
