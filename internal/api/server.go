package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/auth"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/config"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/handlers"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/metrics"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/middleware"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/ws"
)

type Deps struct {
	Verifier    *auth.Verifier
	RateLimiter *middleware.RateLimiter
	Hub         *ws.Hub
	Chat        *handlers.ChatHandler
	Messages    *handlers.MessageHandler
	Status      *handlers.StatusHandler
	Presence    *handlers.PresenceHandler
	Moderation  *handlers.ModerationHandler
	Admin       *handlers.AdminHandler
	Media       *handlers.MediaHandler
	Campus      *handlers.CampusHandler
}

func NewServer(cfg *config.Config, d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AppName:      "campuslink-backend",
	})
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	authn := middleware.JWTAuth(d.Verifier)
	sendLimit := d.RateLimiter.MiddlewareByKey(middleware.ByUser)

	app.Use("/ws", authn, handlers.RequireWebSocket())
	app.Get("/ws", handlers.WSUpgrade(d.Hub))

	v1 := app.Group("/api/v1", authn)

	conv := v1.Group("/conversations")
	conv.Post("/", d.Chat.StartConversation)
	conv.Get("/", d.Chat.ListConversations)
	conv.Get("/archived", d.Chat.ListArchived)
	conv.Get("/with/:peerId", d.Chat.GetConversationWith)
	conv.Get("/:id/messages", d.Chat.ListMessages)
	conv.Post("/:id/pin", d.Chat.TogglePin)
	conv.Post("/:id/mute", d.Chat.ToggleMute)
	conv.Post("/:id/archive", d.Chat.ToggleArchive)
	conv.Post("/:id/clear", d.Chat.ClearHistory)
	conv.Post("/:id/read", d.Status.MarkConversationRead)
	conv.Post("/:id/delivered", d.Status.MarkConversationDelivered)
	conv.Post("/:id/typing", d.Status.SetTyping)
	conv.Get("/:id/typing", d.Status.TypingUsers)
	conv.Post("/:id/media", d.Media.UploadChatMedia)

	msg := v1.Group("/messages")
	msg.Post("/", sendLimit, d.Messages.Send)
	msg.Patch("/:id", d.Messages.Edit)
	msg.Delete("/:id", d.Messages.Delete)
	msg.Post("/:id/reactions", d.Messages.ToggleReaction)
	msg.Post("/:id/delivered", d.Status.MarkDelivered)
	msg.Post("/:id/read", d.Status.MarkRead)

	v1.Post("/presence/heartbeat", d.Presence.Heartbeat)
	v1.Get("/presence/:userId", d.Presence.Status)

	v1.Post("/link-previews", d.Media.LinkPreview)

	mod := v1.Group("/moderation")
	mod.Post("/verifications", d.Moderation.SubmitVerification)
	mod.Post("/verifications/document", d.Moderation.UploadVerificationDocument)
	mod.Post("/reports", sendLimit, d.Moderation.SubmitUserReport)
	mod.Post("/chat-reports", sendLimit, d.Moderation.ReportMessage)
	mod.Post("/blocks/:userId", d.Moderation.Block)
	mod.Delete("/blocks/:userId", d.Moderation.Unblock)

	jobs := v1.Group("/jobs")
	jobs.Post("/", d.Campus.PostJob)
	jobs.Get("/", d.Campus.ListJobs)
	jobs.Post("/:id/close", d.Campus.CloseJob)
	jobs.Post("/:id/apply", d.Campus.Apply)
	jobs.Get("/:id/applications", d.Campus.Applications)

	mentor := v1.Group("/mentorships")
	mentor.Post("/", d.Campus.RequestMentorship)
	mentor.Get("/inbox", d.Campus.MentorInbox)
	mentor.Post("/:id/answer", d.Campus.AnswerMentorship)

	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.Get("/verifications", d.Admin.PendingVerifications)
	admin.Post("/verifications/:id/approve", d.Admin.ApproveVerification)
	admin.Post("/verifications/:id/reject", d.Admin.RejectVerification)
	admin.Get("/reports", d.Admin.PendingReports)
	admin.Post("/reports/:id/resolve", d.Admin.ResolveReport)
	admin.Post("/reports/:id/dismiss", d.Admin.DismissReport)
	admin.Get("/audit", d.Admin.AuditLog)

	return app
}
