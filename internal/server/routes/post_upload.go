package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kgraphrag/backend/internal/server/middleware"
	"github.com/kgraphrag/backend/internal/storage"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/graph"
	"github.com/kgraphrag/backend/pkg/loader"
	"github.com/kgraphrag/backend/pkg/logger"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// UploadDocumentHandler ingests one uploaded document into the knowledge
// graph of its group.
func UploadDocumentHandler(c echo.Context) error {
	type uploadResponse struct {
		Message               string  `json:"message"`
		DocumentID            string  `json:"document_id,omitempty"`
		Filename              string  `json:"filename,omitempty"`
		GroupID               string  `json:"group_id,omitempty"`
		EntitiesCreated       int     `json:"entities_created"`
		EntitiesUpdated       int     `json:"entities_updated"`
		RelationshipsCreated  int     `json:"relationships_created"`
		RelationshipsUpdated  int     `json:"relationships_updated"`
		ChunksProcessed       int     `json:"chunks_processed"`
		ChunksFailed          int     `json:"chunks_failed"`
		ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	}

	app := c.(*middleware.AppContext).App

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "No file provided",
		})
	}

	groupID := c.FormValue("group_id")
	if groupID == "" {
		groupID = app.Settings.DefaultGroupID
	}

	if !loader.Supported(fileHeader.Filename) {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Unsupported file format, supported: " + strings.Join(loader.SupportedExtensions(), ", "),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Failed to read uploaded file",
		})
	}

	ctx := c.Request().Context()
	start := time.Now()

	text, err := loader.ExtractText(ctx, content, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedFormat) || errors.Is(err, common.ErrEmptyDocument) {
			return c.JSON(http.StatusBadRequest, uploadResponse{
				Message: err.Error(),
			})
		}
		logger.Error("Failed to extract text from upload", "filename", fileHeader.Filename, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}

	// archival is best effort, ingestion proceeds without it
	if app.S3 != nil {
		if _, err := storage.ArchiveUpload(ctx, app.S3, groupID, fileHeader.Filename, content); err != nil {
			logger.Warn("Failed to archive upload", "filename", fileHeader.Filename, "err", err)
		}
	}

	docID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}
	doc := &common.Document{
		ID:       docID,
		Filename: fileHeader.Filename,
		GroupID:  groupID,
		Text:     text,
	}

	graphClient, err := graph.NewGraphClient(graph.NewGraphClientParams{
		ChunkSize:          app.Settings.ChunkSize,
		ChunkOverlap:       app.Settings.ChunkOverlap,
		ParallelAiRequests: app.Settings.ParallelAiRequests,
		MaxRetries:         app.Settings.MaxRetries,
	})
	if err != nil {
		logger.Error("Invalid chunking configuration", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}

	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)
	result, err := graphClient.ProcessDocument(ctx, doc, app.AiClient, graphStorage)
	if err != nil {
		if errors.Is(err, common.ErrEmptyDocument) {
			return c.JSON(http.StatusBadRequest, uploadResponse{
				Message: err.Error(),
			})
		}
		logger.Error("Failed to process document", "filename", fileHeader.Filename, "group", groupID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Failed to process document",
		})
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:               "Document processed successfully",
		DocumentID:            doc.ID,
		Filename:              doc.Filename,
		GroupID:               doc.GroupID,
		EntitiesCreated:       result.EntitiesCreated,
		EntitiesUpdated:       result.EntitiesUpdated,
		RelationshipsCreated:  result.RelationshipsCreated,
		RelationshipsUpdated:  result.RelationshipsUpdated,
		ChunksProcessed:       result.ChunksProcessed,
		ChunksFailed:          result.ChunksFailed,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	})
}
