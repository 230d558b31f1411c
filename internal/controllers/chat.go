package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskdesk/internal/dto"
	"taskdesk/internal/services"
	"taskdesk/pkg/utils"
)

type ChatController struct {
	chatService *services.ChatService
	logger      *zap.Logger
}

func NewChatController(chatService *services.ChatService, logger *zap.Logger) *ChatController {
	return &ChatController{chatService: chatService, logger: logger}
}

func (c *ChatController) GetConversations(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conversations, err := c.chatService.GetConversations(reqCtx, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, conversations, "conversations listed", http.StatusOK)
}

func (c *ChatController) GetMessages(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	messages, err := c.chatService.GetMessages(reqCtx, userID, ctx.Param("userId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, messages, "messages listed", http.StatusOK)
}

// SendMessage accepts multipart form data so a file can accompany the
// text. The attachment part is named "attachment".
func (c *ChatController) SendMessage(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SendMessageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var attachment *services.Attachment
	if fileHeader, err := ctx.FormFile("attachment"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		defer file.Close()
		attachment = &services.Attachment{
			File:     file,
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
		}
	}

	message, err := c.chatService.SendMessage(reqCtx, userID, payload.ReceiverID, payload.Content, attachment)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, message, "message sent", http.StatusCreated)
}

func (c *ChatController) MarkMessagesAsRead(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	flipped, err := c.chatService.MarkMessagesAsRead(reqCtx, userID, ctx.Param("userId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int64{"marked_read": flipped}, "messages marked as read", http.StatusOK)
}
