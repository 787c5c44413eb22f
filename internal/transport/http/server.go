package http

import (
	"github.com/gin-gonic/gin"

	appsvc "gopherai-qa/internal/app"
	"gopherai-qa/internal/bootstrap"
	"gopherai-qa/internal/transport/http/handler"
	"gopherai-qa/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger), gin.Recovery())

	rag := app.Config.RAG
	maxUploadBytes := int64(rag.MaxUploadMB) << 20
	router.MaxMultipartMemory = maxUploadBytes

	qaService := appsvc.NewQAService(app.Stores, app.Embedder, app.Logger)
	searchService := appsvc.NewSearchService(
		app.Stores,
		app.Embedder,
		appsvc.NewSynthesizer(app.LLM),
		appsvc.SearchPolicy{TopK: rag.TopK, DistanceThreshold: rag.DistanceThreshold},
		app.SearchLogs,
		app.Logger,
	)
	ingestService := appsvc.NewIngestService(
		app.Stores,
		app.Embedder,
		app.LLM,
		appsvc.IngestPolicy{
			ChunkSize:     rag.ChunkSize,
			ChunkOverlap:  rag.ChunkOverlap,
			QASourceChars: rag.QASourceChars,
			MinQAPairs:    rag.MinQAPairs,
			MaxQAPairs:    rag.MaxQAPairs,
		},
		app.Logger,
	)
	statsService := appsvc.NewStatsService(app.Stores, app.SearchCounter, appsvc.StatsPolicy{
		UnansweredPreview: rag.UnansweredPreview,
		RecentQuestions:   rag.RecentQuestions,
	})
	documentService := appsvc.NewDocumentService(app.Stores)

	healthHandler := handler.NewHealthHandler(app)
	questionHandler := handler.NewQuestionHandler(qaService)
	answerHandler := handler.NewAnswerHandler(qaService)
	searchHandler := handler.NewSearchHandler(searchService)
	statsHandler := handler.NewStatsHandler(statsService)
	uploadHandler := handler.NewUploadHandler(ingestService, maxUploadBytes)
	documentHandler := handler.NewDocumentHandler(documentService)

	router.GET("/healthz", healthHandler.Check)

	router.POST("/questions", questionHandler.Create)
	router.GET("/questions", questionHandler.List)
	router.DELETE("/questions/:id", questionHandler.Delete)

	router.POST("/answers", answerHandler.Create)
	router.GET("/answers/:question_id", answerHandler.ListByQuestion)

	router.POST("/search", searchHandler.Search)
	router.GET("/stats", statsHandler.Get)

	router.POST("/upload-pdf", uploadHandler.UploadPDF)
	router.GET("/documents", documentHandler.List)

	return router
}
