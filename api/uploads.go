package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"videoadmin/logging"
	"videoadmin/mux"
	"videoadmin/result"
	"videoadmin/store"
)

type createUploadRequest struct {
	CorsOrigin     string `json:"cors_origin" validate:"required,http_url|eq=*"`
	LibraryID      string `json:"library_id" validate:"omitempty,uuid"`
	PlaybackPolicy string `json:"playback_policy" validate:"omitempty,oneof=public signed"`
}

func (h *Handler) createUpload(r *http.Request) result.Result[mux.Upload, Code] {
	var in createUploadRequest
	if err := decodeJSON(r, &in); err != nil {
		return bodyFailure[mux.Upload](err)
	}
	if msg, ok := checkStruct(&in); !ok {
		return result.Err[mux.Upload](CodeInvalidInput, msg)
	}
	if in.PlaybackPolicy == "" {
		in.PlaybackPolicy = "public"
	}

	ctx := r.Context()
	up, err := h.platform.CreateUpload(ctx, mux.CreateUploadInput{
		CorsOrigin: in.CorsOrigin,
		NewAssetSettings: mux.NewAssetSettings{
			PlaybackPolicy: []string{in.PlaybackPolicy},
			Passthrough:    in.LibraryID,
		},
	})
	if err != nil {
		return remoteFailure[mux.Upload](ctx, err, "", CodeMuxCreateUploadFailed)
	}

	tok := store.UploadToken{
		UploadID:  up.ID,
		LibraryID: in.LibraryID,
		Status:    up.Status,
		URL:       up.URL,
		CreatedAt: h.now().UTC(),
	}
	if err := h.store.SaveUploadToken(ctx, tok); err != nil {
		return storeFailure[mux.Upload](ctx, err, "", CodeDBSaveTokenFailed)
	}
	h.bookkeeping(ctx, store.UsageUploadCreated)

	logging.Ctx(ctx).Info().Str("upload_id", up.ID).Msg("upload created")
	return result.Ok[mux.Upload, Code](up)
}

func (h *Handler) listUploads(r *http.Request) result.Result[[]store.UploadToken, Code] {
	tokens, err := h.store.ListUploadTokens(r.Context())
	if err != nil {
		return storeFailure[[]store.UploadToken](r.Context(), err, "", CodeDBListTokensFailed)
	}
	if tokens == nil {
		tokens = []store.UploadToken{}
	}
	return result.Ok[[]store.UploadToken, Code](tokens)
}

func (h *Handler) getUpload(r *http.Request) result.Result[mux.Upload, Code] {
	id := chi.URLParam(r, "id")
	if msg, ok := checkVar("id", id, assetIDTags); !ok {
		return result.Err[mux.Upload](CodeInvalidParam, msg)
	}

	up, err := h.platform.GetUpload(r.Context(), id)
	if err != nil {
		return remoteFailure[mux.Upload](r.Context(), err, CodeUploadNotFound, CodeMuxGetUploadFailed)
	}
	return result.Ok[mux.Upload, Code](up)
}
