package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"invoicedesk/internal/logger"
	"invoicedesk/internal/present"
	"invoicedesk/pkg/models"
)

// UploadState is the position of an UploadController in its flow.
type UploadState int

const (
	UploadIdle UploadState = iota
	UploadSubmitting
	UploadSuccess
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadSubmitting:
		return "submitting"
	case UploadSuccess:
		return "success"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	textRecognizing  = "辨識中..."
	labelProcessing  = "處理中..."
	labelSubmit      = "上傳並辨識"
	prefixUploadFail = "錯誤: "
)

// File is a selected upload.
type File struct {
	Name string
	Data []byte
}

// UploadResult is the outcome of one Submit call.
type UploadResult struct {
	State  UploadState
	Record *models.Record
	Err    error
}

// UploadController runs the upload-and-recognize flow.
type UploadController struct {
	client Uploader
	view   UploadView
	log    zerolog.Logger

	mu    sync.Mutex
	state UploadState
}

// NewUploadController creates an UploadController in the idle state.
func NewUploadController(client Uploader, view UploadView) *UploadController {
	return &UploadController{
		client: client,
		view:   view,
		log:    logger.WithComponent("upload"),
	}
}

// State returns the state reached by the last Submit.
func (c *UploadController) State() UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit uploads the single selected file and renders the result. Any
// other number of files is ignored.
func (c *UploadController) Submit(ctx context.Context, files []File) UploadResult {
	if len(files) != 1 {
		c.log.Debug().Int("files", len(files)).Msg("Upload ignored, exactly one file is required")
		return UploadResult{State: c.State()}
	}
	file := files[0]

	c.setState(UploadSubmitting)
	c.view.SetResult(textRecognizing)
	c.view.SetSubmitEnabled(false, labelProcessing)
	c.view.SetSuccessVisible(false)

	record, err := c.client.Submit(ctx, file.Name, file.Data)

	var result UploadResult
	if err != nil {
		c.log.Warn().Err(err).Str("file", file.Name).Msg("Recognition failed")
		c.view.SetResult(prefixUploadFail + err.Error())
		result = UploadResult{State: UploadFailed, Err: err}
	} else {
		c.view.SetResult(present.ResultText(*record))
		c.view.SetSuccessVisible(true)
		result = UploadResult{State: UploadSuccess, Record: record}
	}

	c.view.SetSubmitEnabled(true, labelSubmit)
	c.setState(result.State)
	return result
}

func (c *UploadController) setState(s UploadState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
