package api

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/LJTian/OpsBoard/internal/dashboard"
	"github.com/LJTian/OpsBoard/internal/dataset"
	"github.com/LJTian/OpsBoard/internal/storage"
	"github.com/gin-gonic/gin"
)

// Archive 归档查询，未配置数据库时为 nil
type Archive interface {
	ListRecords(source string, limit int, date string) ([]storage.FeedItem, error)
	ListFetchDates(source string, limit int) ([]string, error)
}

type Server struct {
	board   *dashboard.Board
	archive Archive
}

func NewServer(board *dashboard.Board, archive Archive) *Server {
	return &Server{board: board, archive: archive}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	r.GET("/health", s.health)
	r.GET("/", s.index)
	r.GET("/presentations/:key", s.presentation)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/dashboard", s.dashboard)
		v1.GET("/dataset", s.dataset)
		v1.GET("/feeds/:key", s.feed)
		v1.GET("/archive", s.listArchive)
		v1.GET("/archive/dates", s.listArchiveDates)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) index(c *gin.Context) {
	page := s.board.Render(c.Request.Context())
	c.HTML(http.StatusOK, "index.html", newPageView(page))
}

func (s *Server) dashboard(c *gin.Context) {
	page := s.board.Render(c.Request.Context())
	ok(c, page)
}

func (s *Server) dataset(c *gin.Context) {
	ok(c, dataset.BuildSeries(dataset.Rows()))
}

func (s *Server) feed(c *gin.Context) {
	panel, found := s.board.Panel(c.Request.Context(), c.Param("key"))
	if !found {
		fail(c, http.StatusNotFound, "not_found", "unknown feed")
		return
	}
	ok(c, panel)
}

func (s *Server) presentation(c *gin.Context) {
	p, path, err := s.board.Presentation(c.Param("key"))
	if err != nil {
		var missing *dashboard.MissingAssetError
		if errors.As(err, &missing) {
			notices := dashboard.AssetNotices(p.File, err)
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "missing_asset",
				"message": notices[0].Message,
				"data":    notices,
			})
			return
		}
		if p.Key == "" {
			fail(c, http.StatusNotFound, "not_found", "unknown presentation")
			return
		}
		fail(c, http.StatusInternalServerError, "internal_error", dashboard.AssetNotices(p.File, err)[0].Message)
		return
	}
	c.File(path)
}

func (s *Server) listArchive(c *gin.Context) {
	if s.archive == nil {
		fail(c, http.StatusServiceUnavailable, "archive_disabled", "archive is not configured")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.archive.ListRecords(c.Query("source"), limit, c.Query("date"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	ok(c, items)
}

func (s *Server) listArchiveDates(c *gin.Context) {
	if s.archive == nil {
		fail(c, http.StatusServiceUnavailable, "archive_disabled", "archive is not configured")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "31"))
	if err != nil || limit <= 0 {
		limit = 31
	}

	dates, err := s.archive.ListFetchDates(c.Query("source"), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	ok(c, dates)
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
