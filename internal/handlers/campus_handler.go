package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

type CampusHandler struct {
	campus *service.CampusService
}

func NewCampusHandler(campus *service.CampusService) *CampusHandler {
	return &CampusHandler{campus: campus}
}

func (h *CampusHandler) PostJob(c *fiber.Ctx) error {
	var body struct {
		Title       string `json:"title"`
		Company     string `json:"company"`
		Location    string `json:"location"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	job, err := h.campus.PostJob(c.Context(), &models.JobPosting{
		PostedBy:    userID(c),
		Title:       body.Title,
		Company:     body.Company,
		Location:    body.Location,
		Description: body.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *CampusHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.campus.OpenJobs(c.Context(), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(jobs)
}

func (h *CampusHandler) CloseJob(c *fiber.Ctx) error {
	if err := h.campus.CloseJob(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "closed"})
}

func (h *CampusHandler) Apply(c *fiber.Ctx) error {
	var body struct {
		CoverNote string `json:"cover_note"`
		ResumeURL string `json:"resume_url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	app, err := h.campus.ApplyToJob(c.Context(), &models.JobApplication{
		JobID:       c.Params("id"),
		ApplicantID: userID(c),
		CoverNote:   body.CoverNote,
		ResumeURL:   body.ResumeURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *CampusHandler) Applications(c *fiber.Ctx) error {
	apps, err := h.campus.Applications(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(apps)
}

func (h *CampusHandler) RequestMentorship(c *fiber.Ctx) error {
	var body struct {
		MentorID string `json:"mentor_id"`
		Message  string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	req, err := h.campus.RequestMentorship(c.Context(), &models.MentorshipRequest{
		MenteeID: userID(c),
		MentorID: body.MentorID,
		Message:  body.Message,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *CampusHandler) AnswerMentorship(c *fiber.Ctx) error {
	var body struct {
		Accept bool `json:"accept"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	if err := h.campus.AnswerMentorship(c.Context(), c.Params("id"), userID(c), body.Accept); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "answered"})
}

func (h *CampusHandler) MentorInbox(c *fiber.Ctx) error {
	reqs, err := h.campus.MentorInbox(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reqs)
}
