package dto

// SendMessageDTO arrives as multipart form data so an attachment can ride
// along; Content may be empty when a file is present.
type SendMessageDTO struct {
	ReceiverID string `form:"receiver_id" validate:"required"`
	Content    string `form:"content"`
}
