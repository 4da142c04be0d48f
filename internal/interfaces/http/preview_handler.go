package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
)

// PreviewHandler vista previa de partidas contables.
type PreviewHandler struct {
	uc *ledger.PreviewUseCase
}

// NewPreviewHandler construye el handler.
func NewPreviewHandler(uc *ledger.PreviewUseCase) *PreviewHandler {
	return &PreviewHandler{uc: uc}
}

// Preview godoc
// @Summary      Vista previa de partidas débito/crédito
// @Description  Sin cuenta principal o sin líneas devuelve un resultado vacío y cuadrado.
// @Description  Con strict=true un resultado descuadrado responde 422 con el mismo cuerpo.
// @Tags         splits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        strict  query  bool                false "rechazar resultados descuadrados"
// @Param        body    body   dto.PreviewRequest  true  "líneas, cuenta principal, tercero y unidad"
// @Success      200     {object}  dto.PreviewResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.PreviewResponse
// @Router       /api/splits/preview [post]
func (h *PreviewHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Preview(c.UserContext(), in, c.QueryBool("strict", false))
	if err != nil {
		if errors.Is(err, domain.ErrUnbalanced) && out != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(out)
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}
