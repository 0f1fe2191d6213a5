// Package controller exposes the game media API over gin.
package controller

import (
	"context"
	"io"
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/game-media-api/internal/web/ctxkeys"
	"github.com/Laisky/game-media-api/internal/web/game/dto"
	"github.com/Laisky/game-media-api/internal/web/game/model"
	"github.com/Laisky/game-media-api/internal/web/game/service"
)

const (
	// uploadField is the multipart form field carrying the file.
	uploadField = "file"
	// multipartOverheadBytes is the allowance for boundaries and part
	// headers on top of the configured upload limit.
	multipartOverheadBytes = 64 << 10
)

// Controller maps HTTP requests to service calls.
type Controller struct {
	svc *service.Service
}

// New creates a Controller.
func New(svc *service.Service) *Controller {
	return &Controller{svc: svc}
}

// Register mounts every route on r.
func (c *Controller) Register(r gin.IRouter) {
	r.GET("/", c.Root)
	r.POST("/upload_sprite", c.UploadSprite)
	r.POST("/upload_audio", c.UploadAudio)
	r.POST("/player_score", c.SubmitScore)
	r.GET("/sprites", c.ListSprites)
	r.GET("/audios", c.ListAudio)
	r.GET("/scores", c.ListScores)
}

// Root reports that the server is up.
func (c *Controller) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.Message{Message: "Server is running!"})
}

// UploadSprite handles POST /upload_sprite.
func (c *Controller) UploadSprite(ctx *gin.Context) {
	c.upload(ctx, c.svc.UploadSprite, "Sprite uploaded")
}

// UploadAudio handles POST /upload_audio.
func (c *Controller) UploadAudio(ctx *gin.Context) {
	c.upload(ctx, c.svc.UploadAudio, "Audio file uploaded")
}

type saveUpload func(ctx context.Context, filename string, content io.Reader) (string, error)

func (c *Controller) upload(ctx *gin.Context, save saveUpload, okMsg string) {
	limit := c.svc.Settings().MaxUploadBytes
	if limit > 0 {
		bodyLimit := limit + multipartOverheadBytes
		if ctx.Request.ContentLength > bodyLimit {
			c.abort(ctx, model.NewUploadTooLargeError(limit), "Upload failed")
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, bodyLimit)
	}

	header, err := ctx.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.abort(ctx, model.NewUploadTooLargeError(limit), "Upload failed")
			return
		}

		ctx.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
			Detail: []dto.FieldDetail{{
				Loc:  []string{"body", uploadField},
				Msg:  "Field required",
				Type: "missing",
			}},
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.abort(ctx, model.NewStorageError("open upload", err), "Upload failed")
		return
	}
	defer file.Close() // nolint: errcheck

	id, err := save(ctx.Request.Context(), header.Filename, file)
	if err != nil {
		c.abort(ctx, err, "Upload failed")
		return
	}

	ctx.JSON(http.StatusOK, dto.Created{Message: okMsg, ID: id})
}

// SubmitScore handles POST /player_score.
func (c *Controller) SubmitScore(ctx *gin.Context) {
	sub, err := c.svc.DecodeScoreSubmission(ctx.Request.Body)
	if err != nil {
		c.abort(ctx, err, "Insert failed")
		return
	}

	id, err := c.svc.SubmitScore(ctx.Request.Context(), sub)
	if err != nil {
		c.abort(ctx, err, "Insert failed")
		return
	}

	ctx.JSON(http.StatusOK, dto.Created{Message: "Score recorded", ID: id})
}

// ListSprites handles GET /sprites.
func (c *Controller) ListSprites(ctx *gin.Context) {
	c.listAssets(ctx, c.svc.ListSprites, "Sprite retrieval failed")
}

// ListAudio handles GET /audios.
func (c *Controller) ListAudio(ctx *gin.Context) {
	c.listAssets(ctx, c.svc.ListAudio, "Audio retrieval failed")
}

func (c *Controller) listAssets(ctx *gin.Context,
	list func(context.Context) ([]*model.Asset, error),
	failDetail string,
) {
	assets, err := list(ctx.Request.Context())
	if err != nil {
		c.abort(ctx, err, failDetail)
		return
	}

	out, err := dto.NewAssets(assets)
	if err != nil {
		c.abort(ctx, err, failDetail)
		return
	}

	ctx.JSON(http.StatusOK, out)
}

// ListScores handles GET /scores.
func (c *Controller) ListScores(ctx *gin.Context) {
	scores, err := c.svc.ListScores(ctx.Request.Context())
	if err != nil {
		c.abort(ctx, err, "Score retrieval failed")
		return
	}

	out, err := dto.NewScores(scores)
	if err != nil {
		c.abort(ctx, err, "Score retrieval failed")
		return
	}

	ctx.JSON(http.StatusOK, out)
}

// abort writes the response for err. Input errors are echoed to the
// client; anything else is logged and answered with serverDetail.
func (c *Controller) abort(ctx *gin.Context, err error, serverDetail string) {
	typed, ok := model.AsError(err)
	if ok {
		switch typed.Code {
		case model.ErrCodeInvalidFileType:
			ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Detail: typed.Message})
			return
		case model.ErrCodePayloadTooLarge:
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Detail: typed.Message})
			return
		case model.ErrCodeInvalidPayload:
			ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, newValidationErrorResponse(typed.Fields))
			return
		}
	}

	gmw.GetLogger(ctx).Error("request failed",
		zap.Error(err),
		zap.String("path", ctx.FullPath()),
		zap.String("request_id", ctx.GetString(ctxkeys.RequestID)),
	)
	ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: serverDetail})
}

func newValidationErrorResponse(fields []model.FieldError) dto.ValidationErrorResponse {
	resp := dto.ValidationErrorResponse{Detail: make([]dto.FieldDetail, 0, len(fields))}
	for _, f := range fields {
		loc := []string{"body"}
		if f.Field != "" {
			loc = append(loc, f.Field)
		}
		resp.Detail = append(resp.Detail, dto.FieldDetail{Loc: loc, Msg: f.Message, Type: f.Type})
	}
	return resp
}
