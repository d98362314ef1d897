package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mbruno/notekeep-website/internal/api/middleware"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
	"github.com/mbruno/notekeep-website/internal/service"
)

// ResourceRoutes enables or disables individual routes for a mounted
// resource; construction-time configuration, not subclassing.
type ResourceRoutes struct {
	List      bool
	Get       bool
	Create    bool
	Update    bool
	Delete    bool
	DeleteAll bool
}

// AllResourceRoutes enables the full CRUD surface.
func AllResourceRoutes() ResourceRoutes {
	return ResourceRoutes{List: true, Get: true, Create: true, Update: true, Delete: true, DeleteAll: true}
}

// ResourceHandler serves the generic ownership-scoped CRUD surface for one
// owned entity type. Every operation is scoped to the session user; the
// owning id always comes from the session, never the payload.
type ResourceHandler[T any, PT repository.OwnedEntity[T]] struct {
	service    *service.OwnedService[T, PT]
	routes     ResourceRoutes
	production bool
}

func NewResourceHandler[T any, PT repository.OwnedEntity[T]](svc *service.OwnedService[T, PT], routes ResourceRoutes, production bool) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{service: svc, routes: routes, production: production}
}

// Router mounts the enabled routes. Callers wrap it with RequireAuth.
func (h *ResourceHandler[T, PT]) Router() chi.Router {
	r := chi.NewRouter()
	if h.routes.List {
		r.Get("/", h.List)
	}
	if h.routes.Get {
		r.Get("/{id}", h.Get)
	}
	if h.routes.Create {
		r.Post("/", h.Create)
	}
	if h.routes.Update {
		r.Put("/{id}", h.Update)
	}
	if h.routes.Delete {
		r.Delete("/{id}", h.Delete)
	}
	if h.routes.DeleteAll {
		r.Delete("/", h.DeleteAll)
	}
	return r
}

func (h *ResourceHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	resources, err := h.service.FindAllByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: resources})
}

func (h *ResourceHandler[T, PT]) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	resource, err := h.service.FindByIDAndUser(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}
	if resource == nil {
		writeError(w, domain.NewNotFoundError("Resource not found for the authenticated user."), h.production)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: resource})
}

func (h *ResourceHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	entity := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(entity); err != nil {
		writeError(w, domain.NewValidationError("Invalid request body."), h.production)
		return
	}

	created, err := h.service.CreateForUser(r.Context(), entity, user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: created})
}

func (h *ResourceHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, domain.NewValidationError("Invalid request body."), h.production)
		return
	}
	patch := PT(new(T))
	if err := json.Unmarshal(body, patch); err != nil {
		writeError(w, domain.NewValidationError("Invalid request body."), h.production)
		return
	}
	// Only the keys the client actually sent are written, so a supplied
	// empty string clears the stored value instead of being skipped.
	fields, err := updatableFields[T](body)
	if err != nil {
		writeError(w, domain.NewValidationError("Invalid request body."), h.production)
		return
	}

	updated, err := h.service.UpdateForUser(r.Context(), chi.URLParam(r, "id"), patch, fields, user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}
	if updated == nil {
		writeError(w, domain.NewNotFoundError("Resource not found for the authenticated user."), h.production)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: updated})
}

func (h *ResourceHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	deleted, err := h.service.DeleteForUser(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}
	if deleted == nil {
		writeError(w, domain.NewNotFoundError("Resource not found for the authenticated user."), h.production)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Resource deleted."})
}

func (h *ResourceHandler[T, PT]) DeleteAll(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	count, err := h.service.DeleteAllForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]int64{"deleted": count}})
}

// protectedFields never make it into an update statement regardless of what
// the payload carries.
var protectedFields = map[string]bool{
	"ID":        true,
	"UserID":    true,
	"CreatedAt": true,
	"UpdatedAt": true,
}

// updatableFields maps the JSON keys present in body onto the struct fields
// of T, dropping unknown keys and the protected ones.
func updatableFields[T any](body []byte) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	byTag := map[string]string{}
	collectJSONFields(reflect.TypeOf(*new(T)), byTag)

	fields := make([]string, 0, len(raw))
	for key := range raw {
		name, ok := byTag[key]
		if !ok || protectedFields[name] {
			continue
		}
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields, nil
}

// collectJSONFields records the json-tag-to-field-name mapping for rt,
// flattening anonymous embedded structs the way encoding/json does.
func collectJSONFields(rt reflect.Type, out map[string]string) {
	if rt.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			collectJSONFields(ft, out)
			continue
		}
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = f.Name
		}
		out[tag] = f.Name
	}
}
