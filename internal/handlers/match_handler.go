package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"recruitmate/match-engine/internal/config"
	"recruitmate/match-engine/internal/models"
	"recruitmate/match-engine/internal/services"
)

type MatchHandler struct {
	dispatcher services.MatchDispatcher
	pdfParser  services.PDFParserService
	curator    services.ResponseCurator
	cfg        *config.EngineConfig
}

func NewMatchHandler(
	dispatcher services.MatchDispatcher,
	pdfParser services.PDFParserService,
	curator services.ResponseCurator,
	cfg *config.EngineConfig,
) *MatchHandler {
	return &MatchHandler{
		dispatcher: dispatcher,
		pdfParser:  pdfParser,
		curator:    curator,
		cfg:        cfg,
	}
}

// HandleMatch handles POST /match: job description and CV as raw text.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	return h.runMatch(c, &req)
}

// HandleMatchPDF handles POST /match/pdf: multipart form with the CV as
// an uploaded PDF (cv_file) plus job_description and optional alpha.
func (h *MatchHandler) HandleMatchPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("cv_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv_file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read cv_file",
		})
	}
	defer file.Close()

	cvText, err := h.pdfParser.ExtractText(file, fileHeader.Size)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to extract text from PDF: %v", err),
		})
	}

	req := models.MatchRequest{
		JobDescription: c.FormValue("job_description"),
		CVText:         cvText,
	}

	if alphaStr := c.FormValue("alpha"); alphaStr != "" {
		alpha, err := strconv.ParseFloat(alphaStr, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid alpha value",
			})
		}
		req.Alpha = &alpha
	}

	return h.runMatch(c, &req)
}

// runMatch validates the request, hands it to the worker pool and shapes
// the response for the requested tier.
func (h *MatchHandler) runMatch(c *fiber.Ctx, req *models.MatchRequest) error {
	if len(req.JobDescription) < h.cfg.MinInputLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("job_description must be at least %d characters", h.cfg.MinInputLength),
		})
	}
	if len(req.CVText) < h.cfg.MinInputLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("cv_text must be at least %d characters", h.cfg.MinInputLength),
		})
	}
	if req.Alpha != nil && (*req.Alpha < 0.0 || *req.Alpha > 1.0) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "alpha must be between 0.0 and 1.0",
		})
	}

	tier := c.Query("tier")
	if tier != "" && tier != "free" && tier != "premium" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tier must be free or premium",
		})
	}

	resp, err := h.dispatcher.Dispatch(c.UserContext(), req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Internal processing error: %v", err),
		})
	}

	if tier != "" {
		return c.JSON(h.curator.Curate(resp, tier == "premium"))
	}
	return c.JSON(resp)
}
