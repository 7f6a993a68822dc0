package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// BlogHandler handles HTTP requests for blog operations.
type BlogHandler struct {
	service ports.BlogService
}

func NewBlogHandler(service ports.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /blogs.
//
// @Summary      List blogs
// @Tags         blogs
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  successResponse{data=blogPageResponse}
// @Failure      400    {object}  errorResponse
// @Router       /blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", toBlogPageResponse(page)))
}

// MyBlogs handles GET /blogs/user/my-blogs.
//
// @Summary      List the caller's blogs
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  successResponse{data=blogPageResponse}
// @Failure      401    {object}  errorResponse
// @Router       /blogs/user/my-blogs [get]
func (h *BlogHandler) MyBlogs(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListByAuthor(c.Request().Context(), userID, q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", toBlogPageResponse(page)))
}

// Get handles GET /blogs/:id.
//
// @Summary      Get a blog
// @Tags         blogs
// @Produce      json
// @Param        id   path      string  true  "Blog id"
// @Success      200  {object}  successResponse{data=blogResponse}
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogs/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	blog, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", toBlogResponse(blog)))
}

// Create handles POST /blogs.
//
// @Summary      Create a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      blogRequest  true  "Blog"
// @Success      201   {object}  successResponse{data=blogResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req blogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	blog, err := h.service.Create(c.Request().Context(), userID, ports.BlogInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	metrics.BlogOperationsTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, ok("Blog created successfully", toBlogResponse(blog)))
}

// Update handles PATCH /blogs/:id.
//
// @Summary      Update a blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Blog id"
// @Param        body  body      blogRequest  true  "Blog"
// @Success      200   {object}  successResponse{data=blogResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /blogs/{id} [patch]
func (h *BlogHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req blogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	blog, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), ports.BlogInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	metrics.BlogOperationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, ok("Blog updated successfully", toBlogResponse(blog)))
}

// Delete handles DELETE /blogs/:id.
//
// @Summary      Delete a blog
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Blog id"
// @Success      200  {object}  successResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	metrics.BlogOperationsTotal.WithLabelValues("delete").Inc()

	return c.JSON(http.StatusOK, ok("Blog deleted successfully", nil))
}

func bindPage(c echo.Context) (pageQuery, error) {
	var q pageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return q, nil
}
