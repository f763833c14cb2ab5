package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"videoadmin/logging"
	"videoadmin/result"
	"videoadmin/store"
)

type createLibraryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type settingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1,max=50,dive,keys,min=1,max=64,endkeys,max=1024"`
}

func (h *Handler) listLibraries(r *http.Request) result.Result[[]store.Library, Code] {
	libs, err := h.store.ListLibraries(r.Context())
	if err != nil {
		return storeFailure[[]store.Library](r.Context(), err, "", CodeDBListLibrariesFailed)
	}
	if libs == nil {
		libs = []store.Library{}
	}
	return result.Ok[[]store.Library, Code](libs)
}

func (h *Handler) createLibrary(r *http.Request) result.Result[store.Library, Code] {
	var in createLibraryRequest
	if err := decodeJSON(r, &in); err != nil {
		return bodyFailure[store.Library](err)
	}
	in.Name = strings.TrimSpace(in.Name)
	if msg, ok := checkStruct(&in); !ok {
		return result.Err[store.Library](CodeInvalidInput, msg)
	}

	lib := store.Library{ID: uuid.NewString(), Name: in.Name, CreatedAt: h.now().UTC()}
	if err := h.store.CreateLibrary(r.Context(), lib); err != nil {
		return storeFailure[store.Library](r.Context(), err, "", CodeDBCreateLibraryFailed)
	}
	logging.Ctx(r.Context()).Info().Str("library_id", lib.ID).Msg("library created")
	return result.Ok[store.Library, Code](lib)
}

func (h *Handler) deleteLibrary(r *http.Request) result.Result[deleted, Code] {
	id := chi.URLParam(r, "id")
	if msg, ok := checkVar("id", id, "required,uuid"); !ok {
		return result.Err[deleted](CodeInvalidParam, msg)
	}
	if err := h.store.DeleteLibrary(r.Context(), id); err != nil {
		return storeFailure[deleted](r.Context(), err, CodeLibraryNotFound, CodeDBDeleteLibraryFailed)
	}
	return result.Ok[deleted, Code](deleted{ID: id, Deleted: true})
}

func (h *Handler) getSettings(r *http.Request) result.Result[store.Settings, Code] {
	s, err := h.store.GetSettings(r.Context())
	if err != nil {
		return storeFailure[store.Settings](r.Context(), err, "", CodeDBGetSettingsFailed)
	}
	return result.Ok[store.Settings, Code](s)
}

// putSettings mescla as chaves enviadas e devolve o conjunto completo.
func (h *Handler) putSettings(r *http.Request) result.Result[store.Settings, Code] {
	var in settingsRequest
	if err := decodeJSON(r, &in); err != nil {
		return bodyFailure[store.Settings](err)
	}
	if msg, ok := checkStruct(&in); !ok {
		return result.Err[store.Settings](CodeInvalidInput, msg)
	}
	if err := h.store.PutSettings(r.Context(), store.Settings(in.Settings)); err != nil {
		return storeFailure[store.Settings](r.Context(), err, "", CodeDBSaveSettingsFailed)
	}
	return h.getSettings(r)
}
