package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/api/views"
	"github.com/99minutos/todolist/internal/core/domain"
	"github.com/99minutos/todolist/internal/core/ports"
)

// ListHandler serves the list page and its item mutations.
type ListHandler struct {
	service ports.ListService
	log     zerolog.Logger
}

func NewListHandler(service ports.ListService, log zerolog.Logger) *ListHandler {
	return &ListHandler{service: service, log: log}
}

// Show handles GET /lists/:urlUserName. Visitors asking for someone else's
// list land on their own. A missing list is recreated with the default items.
func (h *ListHandler) Show(c echo.Context) error {
	user := currentUser(c)
	name, err := listParam(c)
	if err != nil {
		return h.fail(c, user, domain.ErrForbidden)
	}
	ctx := c.Request().Context()

	list, err := h.service.GetList(ctx, user, name)
	if errors.Is(err, domain.ErrListNotFound) {
		h.log.Warn().Str("list", name).Msg("list missing, recreating default list")
		if list, err = h.service.CreateDefaultList(ctx, name); err != nil {
			return err
		}
	}
	if err != nil {
		return h.fail(c, user, err)
	}

	page := newPage(c, list.Name)
	page.List = &views.ListView{Title: list.Name, Items: list.Items}
	return c.Render(http.StatusOK, views.PageList, page)
}

// AddItem handles POST /lists/:urlUserName. The form's list field names the
// target list; both it and the path must be the visitor's own list.
func (h *ListHandler) AddItem(c echo.Context) error {
	user := currentUser(c)
	name, err := listParam(c)
	if err != nil {
		return h.fail(c, user, domain.ErrForbidden)
	}

	var form newItemForm
	if err := c.Bind(&form); err != nil {
		return redirect(c, views.ListPath(name))
	}
	if user == nil || user.Username != name {
		return h.fail(c, user, domain.ErrForbidden)
	}
	target := form.List
	if target == "" {
		target = name
	}
	if target != name {
		return h.fail(c, user, domain.ErrForbidden)
	}
	if err := c.Validate(&form); err != nil {
		return redirect(c, views.ListPath(name))
	}

	if _, err := h.service.AddItem(c.Request().Context(), user, target, form.NewItem); err != nil {
		return h.fail(c, user, err)
	}

	return redirect(c, views.ListPath(target))
}

// DeleteItem handles POST /delete.
func (h *ListHandler) DeleteItem(c echo.Context) error {
	user := currentUser(c)

	var form deleteForm
	if err := c.Bind(&form); err != nil {
		return h.fail(c, user, domain.ErrInvalidItem)
	}
	if err := c.Validate(&form); err != nil {
		return h.fail(c, user, domain.ErrInvalidItem)
	}

	if _, err := h.service.DeleteItem(c.Request().Context(), user, form.ListName, form.Checkbox); err != nil {
		return h.fail(c, user, err)
	}

	return redirect(c, views.ListPath(form.ListName))
}

// fail redirects for policy errors and lets the error handler render the rest.
func (h *ListHandler) fail(c echo.Context, user *domain.User, err error) error {
	if target, ok := redirectTarget(user, err); ok {
		h.log.Debug().Err(err).Str("path", c.Path()).Str("redirect", target).Msg("list request redirected")
		return redirect(c, target)
	}
	return err
}
