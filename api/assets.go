package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"videoadmin/logging"
	"videoadmin/mux"
	"videoadmin/result"
	"videoadmin/store"
)

// assetIDTags valida ids da plataforma (alfanuméricos).
const assetIDTags = "required,alphanum,max=255"

type listAssetsQuery struct {
	Page  int `query:"page" validate:"gte=1"`
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

type assetList struct {
	Assets []mux.Asset `json:"assets"`
	Page   int         `json:"page"`
	Limit  int         `json:"limit"`
}

// assetView é o asset remoto com os metadados locais, quando existem.
type assetView struct {
	mux.Asset
	Title     string `json:"title,omitempty"`
	LibraryID string `json:"library_id,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

type createAssetRequest struct {
	URLs           []string `json:"urls" validate:"required,min=1,max=10,dive,http_url"`
	Title          string   `json:"title" validate:"omitempty,max=200"`
	LibraryID      string   `json:"library_id" validate:"omitempty,uuid"`
	PlaybackPolicy string   `json:"playback_policy" validate:"omitempty,oneof=public signed"`
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *Handler) listAssets(r *http.Request) result.Result[assetList, Code] {
	var q listAssetsQuery
	var err error
	if q.Page, err = queryInt(r, "page", 1); err != nil {
		return result.Err[assetList](CodeInvalidQuery, err.Error())
	}
	if q.Limit, err = queryInt(r, "limit", 25); err != nil {
		return result.Err[assetList](CodeInvalidQuery, err.Error())
	}
	if msg, ok := checkStruct(&q); !ok {
		return result.Err[assetList](CodeInvalidQuery, msg)
	}

	assets, err := h.platform.ListAssets(r.Context(), mux.ListParams{Page: q.Page, Limit: q.Limit})
	if err != nil {
		return remoteFailure[assetList](r.Context(), err, "", CodeMuxListAssetsFailed)
	}
	if assets == nil {
		assets = []mux.Asset{}
	}
	return result.Ok[assetList, Code](assetList{Assets: assets, Page: q.Page, Limit: q.Limit})
}

func (h *Handler) getAsset(r *http.Request) result.Result[assetView, Code] {
	id := chi.URLParam(r, "id")
	if msg, ok := checkVar("id", id, assetIDTags); !ok {
		return result.Err[assetView](CodeInvalidParam, msg)
	}

	a, err := h.platform.GetAsset(r.Context(), id)
	if err != nil {
		return remoteFailure[assetView](r.Context(), err, CodeAssetNotFound, CodeMuxGetAssetFailed)
	}

	view := assetView{Asset: a}
	// metadados locais são opcionais: assets criados fora do painel não têm
	meta, err := h.store.GetAsset(r.Context(), id)
	switch {
	case err == nil:
		view.Title, view.LibraryID, view.SourceURL = meta.Title, meta.LibraryID, meta.SourceURL
	case !errors.Is(err, store.ErrNotFound):
		logging.Ctx(r.Context()).Warn().Err(err).Str("asset_id", id).Msg("failed to load asset metadata")
	}
	return result.Ok[assetView, Code](view)
}

func (h *Handler) createAsset(r *http.Request) result.Result[assetView, Code] {
	var in createAssetRequest
	if err := decodeJSON(r, &in); err != nil {
		return bodyFailure[assetView](err)
	}
	if msg, ok := checkStruct(&in); !ok {
		return result.Err[assetView](CodeInvalidInput, msg)
	}
	if in.PlaybackPolicy == "" {
		in.PlaybackPolicy = "public"
	}

	ctx := r.Context()
	if in.LibraryID != "" {
		if _, err := h.store.GetLibrary(ctx, in.LibraryID); err != nil {
			return storeFailure[assetView](ctx, err, CodeLibraryNotFound, CodeDBGetLibraryFailed)
		}
	}

	inputs := make([]mux.AssetInput, 0, len(in.URLs))
	for _, u := range in.URLs {
		inputs = append(inputs, mux.AssetInput{URL: u})
	}
	a, err := h.platform.CreateAsset(ctx, mux.CreateAssetInput{
		Inputs:         inputs,
		PlaybackPolicy: []string{in.PlaybackPolicy},
		Passthrough:    in.LibraryID,
	})
	if err != nil {
		return remoteFailure[assetView](ctx, err, "", CodeMuxCreateAssetFailed)
	}

	meta := store.Asset{
		ID:        a.ID,
		LibraryID: in.LibraryID,
		Title:     in.Title,
		SourceURL: in.URLs[0],
		CreatedAt: h.now().UTC(),
	}
	if len(a.PlaybackIDs) > 0 {
		meta.PlaybackID = a.PlaybackIDs[0].ID
	}
	// o asset já existe na plataforma: o erro diz qual passo falhou
	if err := h.store.SaveAsset(ctx, meta); err != nil {
		return storeFailure[assetView](ctx, err, "", CodeDBSaveAssetFailed)
	}
	h.bookkeeping(ctx, store.UsageAssetCreated)

	logging.Ctx(ctx).Info().Str("asset_id", a.ID).Str("library_id", in.LibraryID).Msg("asset created")
	return result.Ok[assetView, Code](assetView{Asset: a, Title: meta.Title, LibraryID: meta.LibraryID, SourceURL: meta.SourceURL})
}

func (h *Handler) deleteAsset(r *http.Request) result.Result[deleted, Code] {
	id := chi.URLParam(r, "id")
	if msg, ok := checkVar("id", id, assetIDTags); !ok {
		return result.Err[deleted](CodeInvalidParam, msg)
	}

	ctx := r.Context()
	if err := h.platform.DeleteAsset(ctx, id); err != nil {
		return remoteFailure[deleted](ctx, err, CodeAssetNotFound, CodeMuxDeleteAssetFailed)
	}
	if err := h.store.DeleteAsset(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return storeFailure[deleted](ctx, err, "", CodeDBDeleteAssetFailed)
	}
	h.bookkeeping(ctx, store.UsageAssetDeleted)

	logging.Ctx(ctx).Info().Str("asset_id", id).Msg("asset deleted")
	return result.Ok[deleted, Code](deleted{ID: id, Deleted: true})
}
